// galactia-summary is a dry-run driver for the summarization pipeline: it
// replays a channel snapshot JSON against a trigger message and prints the
// payloads the bot would deliver, using the real OpenAI delegate.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lesgalactiques/galactia/logger"
	"github.com/lesgalactiques/galactia/summary"
	"github.com/lesgalactiques/galactia/summary/provider"
)

func main() {
	_ = godotenv.Load()
	log := logger.Get()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err).Error())
		os.Exit(2)
	}

	snap, err := loadSnapshot(cfg.SnapshotPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := summary.NewOrchestrator(provider.New(apiKey, cfg.Model), snap.SelfID, loc, log)
	out := &stdoutResponder{}
	fmt.Println("EDIT> " + summary.ThinkingMessage)

	outcome := orch.HandleTrigger(ctx, snap, out, summary.Trigger{
		ChannelName: snap.Name,
		Content:     cfg.Message,
		AuthorID:    cfg.AuthorID,
		Mentions:    splitCSV(cfg.Mentions),
	})

	fmt.Fprintf(os.Stdout, "state=%s\n", outcome.State)
	if outcome.State == summary.StateAborted {
		os.Exit(1)
	}
}

// channelSnapshot is a frozen channel: the history source the pipeline
// normally reads live from the gateway.
type channelSnapshot struct {
	Name     string                   `json:"name"`
	SelfID   string                   `json:"self_id"`
	Roster   []summary.Member         `json:"members"`
	Messages []summary.ChannelMessage `json:"messages"`
}

func loadSnapshot(path string) (*channelSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap channelSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// History returns up to limit snapshot messages inside [after, before),
// newest first, matching the gateway convention.
func (s *channelSnapshot) History(_ context.Context, after, before time.Time, limit int) ([]summary.ChannelMessage, error) {
	out := make([]summary.ChannelMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		if !after.IsZero() && m.CreatedAt.Before(after) {
			continue
		}
		if !before.IsZero() && !m.CreatedAt.Before(before) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *channelSnapshot) Members(_ context.Context) ([]summary.Member, error) {
	return append([]summary.Member(nil), s.Roster...), nil
}

type stdoutResponder struct{}

func (stdoutResponder) Edit(_ context.Context, content string) error {
	fmt.Println("EDIT> " + content)
	return nil
}

func (stdoutResponder) Send(_ context.Context, content string) error {
	fmt.Println("SEND> " + content)
	return nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
