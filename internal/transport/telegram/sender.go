package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/tuskcmd/pkg/conv"
	"github.com/sandevgo/tuskcmd/pkg/log"
	"github.com/sethvargo/go-retry"
	tele "gopkg.in/telebot.v3"
)

const (
	maxTelegramMsgLen = 4000 // Safety margin below 4096
	maxSendRetries    = 3
	maxFloodWait      = 30 * time.Second
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot     messenger
	backoff func() retry.Backoff
	wait    func(ctx context.Context, d time.Duration) error
}

func newSender(bot messenger) *sender {
	return &sender{
		bot: bot,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(300 * time.Millisecond)
			b = retry.WithJitter(50*time.Millisecond, b)
			b = retry.WithCappedDuration(5*time.Second, b)
			return retry.WithMaxRetries(maxSendRetries, b)
		},
		wait: sleep,
	}
}

// sendLines renders reply lines to Telegram HTML and sends them in chunks.
func (s *sender) sendLines(ctx context.Context, to tele.Recipient, lines []string) error {
	html := conv.LinesToTelegramHTML(lines)
	if html == "" {
		return nil
	}

	logger := log.FromCtx(ctx)
	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
			_, err := s.bot.Send(to, chunk, tele.ModeHTML)
			if err == nil {
				return nil
			}

			var flood tele.FloodError
			if errors.As(err, &flood) {
				after := time.Duration(flood.RetryAfter) * time.Second
				if after > maxFloodWait {
					return err
				}
				logger.Debug().Int("chunk", i).Dur("retry_after", after).Msg("telegram flood control")
				if werr := s.wait(ctx, after); werr != nil {
					return werr
				}
				return retry.RetryableError(err)
			}

			if retryable(err) {
				logger.Debug().Err(err).Int("chunk", i).Msg("retrying telegram send")
				return retry.RetryableError(err)
			}
			return err
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// retryable is false for API errors the same request will hit again.
func retryable(err error) bool {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// splitHTML splits rendered lines into chunks of at most maxLen bytes.
// Whole lines are packed together; a line longer than maxLen is cut between
// tags, entities and runes, closing open elements at the end of a chunk and
// reopening them at the start of the next.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if len(line) > maxLen {
			flush()
			chunks = append(chunks, splitLine(line, maxLen)...)
			continue
		}
		if cur.Len() > 0 && cur.Len()+1+len(line) > maxLen {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}

type openTag struct {
	raw  string
	name string
}

func splitLine(line string, maxLen int) []string {
	var chunks []string
	var open []openTag
	var cur strings.Builder
	closing := 0

	closeAll := func() {
		for i := len(open) - 1; i >= 0; i-- {
			cur.WriteString("</" + open[i].name + ">")
		}
	}

	for _, tok := range htmlTokens(line) {
		cost := len(tok)
		name, isOpen, isClose := tagName(tok)
		closesTop := isClose && len(open) > 0 && open[len(open)-1].name == name
		switch {
		case isOpen:
			cost += len(name) + 3
		case closesTop:
			// Replaces the closer already counted in closing.
			cost = 0
		}

		if cur.Len()+cost+closing > maxLen && cur.Len() > reopenLen(open) {
			closeAll()
			chunks = append(chunks, cur.String())
			cur.Reset()
			for _, t := range open {
				cur.WriteString(t.raw)
			}
		}

		cur.WriteString(tok)
		switch {
		case isOpen:
			open = append(open, openTag{raw: tok, name: name})
			closing += len(name) + 3
		case closesTop:
			open = open[:len(open)-1]
			closing -= len(name) + 3
		}
	}
	if cur.Len() > reopenLen(open) {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func reopenLen(open []openTag) int {
	n := 0
	for _, t := range open {
		n += len(t.raw)
	}
	return n
}

// htmlTokens yields tags, entities and single runes.
func htmlTokens(s string) []string {
	var toks []string
	for len(s) > 0 {
		switch s[0] {
		case '<':
			if end := strings.IndexByte(s, '>'); end > 0 {
				toks = append(toks, s[:end+1])
				s = s[end+1:]
				continue
			}
		case '&':
			if end := strings.IndexByte(s, ';'); end > 0 && end <= 10 {
				toks = append(toks, s[:end+1])
				s = s[end+1:]
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(s)
		toks = append(toks, s[:size])
		s = s[size:]
	}
	return toks
}

// tagName reports the element name of an opening or closing tag token.
func tagName(tok string) (name string, isOpen, isClose bool) {
	if len(tok) < 3 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return "", false, false
	}
	body := tok[1 : len(tok)-1]
	if strings.HasSuffix(body, "/") {
		return "", false, false
	}
	if strings.HasPrefix(body, "/") {
		return strings.TrimSpace(body[1:]), false, true
	}
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		body = body[:i]
	}
	return body, true, false
}
