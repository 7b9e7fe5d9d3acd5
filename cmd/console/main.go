package main

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/api"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/terminal"
)

const helpText = `commands:
  :file <path>      select an image file
  :camera           turn the camera on/off
  :capture          take a picture with the camera
  :predict          analyze the current image
  :language <name>  language of the assistant's replies
  :about            encyclopedia summary of the detected condition
  :delete <id>      delete a saved history entry
  :help             this text
  :quit             exit
anything else is sent to the assistant`

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
	dermachat := api.NewAPI(config, credentials)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = dermachat.Login(ctx)
	if err != nil {
		return err
	}
	rl, err := readline.New(promptFor(domain.ChatPlaceholder))
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	renderer := terminal.NewRenderer(rl.Stdout())
	console := &console{
		ctx:       ctx,
		dermachat: dermachat,
		renderer:  renderer,
		rl:        rl,
		prompt:    promptFor(domain.ChatPlaceholder),
	}
	renderer.OnPlaceholderChanged(console.setPlaceholder)
	console.session = dermachat.NewSession(renderer, true)
	defer console.session.Close()
	renderer.Println(helpText)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			break
		}
		if !console.handle(strings.TrimSpace(line)) {
			break
		}
	}
	cancel()
	console.waitGroup.Wait()
	return nil
}

type console struct {
	ctx       context.Context
	dermachat api.API
	session   api.Session
	renderer  *terminal.Renderer
	rl        *readline.Instance
	waitGroup sync.WaitGroup
	mutex     sync.Mutex
	prompt    string
}

func (c *console) setPlaceholder(placeholder string) {
	c.mutex.Lock()
	c.prompt = promptFor(placeholder)
	c.mutex.Unlock()
	c.rl.SetPrompt(c.currentPrompt())
	c.rl.Refresh()
}

func (c *console) currentPrompt() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.prompt
}

// handle returns false when the user wants to quit.
func (c *console) handle(line string) bool {
	if !strings.HasPrefix(line, ":") {
		// chat replies arrive in the background, so the user can keep typing
		c.background(func() error {
			err := c.session.SendChatMessage(c.ctx, line)
			if errors.Is(err, domain.ErrEmptyMessage) {
				return nil
			}
			return err
		})
		return true
	}
	command, argument, _ := strings.Cut(line[1:], " ")
	argument = common.RemoveQuotesIfAny(strings.TrimSpace(argument))
	switch command {
	case "file", "upload":
		if argument == "" {
			c.renderer.Errorln("usage: :file <path>")
			return true
		}
		err := c.session.SelectFile(argument)
		if err != nil {
			c.renderer.Errorln(err.Error())
		}
	case "camera":
		c.background(func() error {
			return c.session.OpenCamera(c.ctx)
		})
	case "capture":
		err := c.session.Capture()
		if errors.Is(err, domain.ErrNoCameraSession) {
			c.renderer.Errorln("the camera is off, type :camera first")
		}
	case "predict":
		c.background(func() error {
			err := c.session.Predict(c.ctx)
			if errors.Is(err, domain.ErrPredictionInProgress) {
				c.renderer.Errorln("still analyzing the previous image")
				return nil
			}
			return err
		})
	case "language":
		c.session.SetLanguage(argument)
	case "about":
		c.background(func() error {
			summary, err := c.session.AboutCondition()
			if err != nil {
				c.renderer.Errorln(err.Error())
				return nil
			}
			c.renderer.Println(summary)
			return nil
		})
	case "delete":
		c.deleteHistoryEntry(argument)
	case "help":
		c.renderer.Println(helpText)
	case "quit", "exit":
		return false
	default:
		c.renderer.Errorln("unknown command, type :help")
	}
	return true
}

func (c *console) deleteHistoryEntry(argument string) {
	message, isError := deleteHistoryEntry(c.ctx, c.dermachat, argument, func(prompt string) (string, error) {
		c.rl.SetPrompt(prompt)
		defer c.rl.SetPrompt(c.currentPrompt())
		return c.rl.Readline()
	})
	switch {
	case message == "":
	case isError:
		c.renderer.Errorln(message)
	default:
		c.renderer.Println(message)
	}
}

// background runs `job` without blocking the input loop. Errors already shown by the renderer are only logged.
func (c *console) background(job func() error) {
	c.waitGroup.Add(1)
	go func() {
		defer c.waitGroup.Done()
		err := job()
		if err != nil && !errors.Is(err, context.Canceled) {
			c.dermachat.Logger().Log(err.Error())
		}
	}()
}

func loadConfig(path string) (*common.Config, error) {
	config, err := common.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return common.NewConfig(nil), nil
	}
	return config, err
}

func promptFor(placeholder string) string {
	return placeholder + " > "
}
