package main

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/api"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := loadConfig("config.yaml")
	if err != nil {
		return err
	}
	credentials, err := common.LoadCredentials(".env")
	if err != nil {
		return err
	}
	agentName := config.GetStringOrDefault("agentName", "Dermachat")
	roomName := config.GetStringOrDefault("roomName", "dermachat")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	dermachat := api.NewAPI(config, credentials)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = dermachat.Login(ctx)
	if err != nil {
		return err
	}
	ircBot, err := hbot.NewBot(serverName, agentName)
	if err != nil {
		return err
	}
	// downloads and predictions take a while; they're processed one at a time off the IRC read loop
	jobQueue := common.NewJobQueue(dermachat.Logger(), 32)
	defer jobQueue.Stop()
	rooms := &rooms{
		dermachat: dermachat,
		bot:       ircBot,
		sessions:  make(map[string]api.Session),
	}
	defer rooms.closeAll()
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "PRIVMSG" && len(m.To) > 0 && m.To[0] == '#'
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			what, ok := addressedTo(agentName, m.Content)
			if !ok {
				return false
			}
			channel := m.To
			session := rooms.get(channel)
			switch {
			case what == "forget everything":
				rooms.reset(channel)
			case what == "about":
				go func() {
					summary, err := session.AboutCondition()
					if err != nil {
						summary = err.Error()
					}
					rooms.say(channel, summary)
				}()
			case strings.HasPrefix(what, "language "):
				session.SetLanguage(what[len("language "):])
			case what == "camera":
				_ = session.OpenCamera(ctx)
			default:
				urls := dermachat.FindURLs(what)
				if len(urls) == 0 {
					go func() {
						_ = session.SendChatMessage(ctx, what)
					}()
					return true
				}
				url := urls[0] // one image at a time
				enqueued := jobQueue.Enqueue(func() error {
					err := session.SelectImageURL(ctx, url)
					if err != nil {
						rooms.say(channel, m.From+": couldn't load the image ("+err.Error()+")")
						return err
					}
					return session.Predict(ctx)
				})
				if !enqueued {
					b.Reply(m, m.From+": too busy right now, try again later")
				}
			}
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// addressedTo returns the message without the "<agentName>," prefix.
func addressedTo(agentName, content string) (string, bool) {
	prefixLength := 0
	for i := 0; i < utf8.RuneCountInString(agentName); i++ {
		if prefixLength >= len(content) {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(content[prefixLength:])
		prefixLength += size
	}
	if !strings.EqualFold(content[:prefixLength], agentName) {
		return "", false
	}
	what := strings.TrimSpace(content[prefixLength:])
	what = strings.TrimSpace(strings.TrimLeft(what, ",:"))
	return what, what != ""
}

func loadConfig(path string) (*common.Config, error) {
	config, err := common.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return common.NewConfig(nil), nil
	}
	return config, err
}

// rooms keeps one session per channel.
type rooms struct {
	mutex     sync.Mutex
	dermachat api.API
	bot       *hbot.Bot
	sessions  map[string]api.Session
}

func (r *rooms) get(channel string) api.Session {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session, ok := r.sessions[channel]
	if !ok {
		session = r.dermachat.NewSession(newChannelListener(channel, r.say), false)
		r.sessions[channel] = session
	}
	return session
}

func (r *rooms) reset(channel string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if session, ok := r.sessions[channel]; ok {
		session.Close()
		delete(r.sessions, channel)
	}
}

func (r *rooms) closeAll() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for channel, session := range r.sessions {
		session.Close()
		delete(r.sessions, channel)
	}
}

func (r *rooms) say(channel, text string) {
	r.bot.Msg(channel, text)
}

var _ domain.Listener = (*channelListener)(nil)
