package main

import (
	"strings"
	"unicode/utf8"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/markup"
)

const (
	maxLinesPerReply = 12
	maxLineLength    = 400
)

// channelListener posts the controller's output to an IRC channel. IRC has no markup, so replies are flattened
// and cut to a few lines to avoid flooding.
type channelListener struct {
	channel        string
	say            func(channel, text string)
	lastResultText string
}

func newChannelListener(channel string, say func(channel, text string)) *channelListener {
	return &channelListener{
		channel: channel,
		say:     say,
	}
}

func (c *channelListener) StateChanged(state domain.ViewState) {
	if state.ResultText == c.lastResultText {
		return
	}
	c.lastResultText = state.ResultText
	if state.ResultText != "" {
		c.say(c.channel, state.ResultText)
	}
}

func (c *channelListener) TurnAppended(turn domain.ChatTurn) {
	if turn.Speaker == domain.SpeakerUser {
		return
	}
	for _, line := range ircLines(markup.ToPlainText(turn.Text)) {
		c.say(c.channel, line)
	}
}

func (c *channelListener) Alert(message string) {
	c.say(c.channel, message)
}

func ircLines(text string) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(result) == maxLinesPerReply {
			result = append(result, "(...)")
			break
		}
		result = append(result, truncateLine(line))
	}
	return result
}

// truncateLine cuts the line to at most maxLineLength bytes without splitting a rune.
func truncateLine(line string) string {
	if len(line) <= maxLineLength {
		return line
	}
	end := maxLineLength
	for end > 0 && !utf8.RuneStart(line[end]) {
		end--
	}
	return line[:end] + "..."
}
