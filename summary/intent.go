package summary

import (
	"context"

	"github.com/rs/zerolog"
)

var intentSchema = generateSchema[Intent]()

// IntentClassifier turns a sanitized trigger message into an Intent via one
// structured delegate call.
type IntentClassifier struct {
	Delegate Completer
	Log      zerolog.Logger
}

// Classify never fails: a delegate error, empty response, or unparseable
// payload all degrade to the degenerate non-summary intent, which the
// orchestrator turns into a polite refusal.
func (c *IntentClassifier) Classify(ctx context.Context, text, channelName string) Intent {
	raw, err := c.Delegate.Complete(ctx, CompletionRequest{
		Instructions: intentInstructions(channelName),
		Input:        intentInput(text, channelName),
		SchemaName:   "SummaryIntent",
		Schema:       intentSchema,
	})
	if err != nil {
		c.Log.Warn().Err(err).Msg("intent: delegate failed, assuming non-summary")
		return Intent{}
	}

	var in Intent
	if err := decodeModelJSON(raw, &in); err != nil {
		c.Log.Warn().Err(err).Str("raw", raw).Msg("intent: unparseable response, assuming non-summary")
		return Intent{}
	}

	c.Log.Info().
		Bool("summary", in.Summary).
		Bool("wrong_channel", in.WrongChannel).
		Strs("authors", in.Authors).
		Msg("intent: classified")
	return in
}
