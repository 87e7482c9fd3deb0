package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedDelegate routes each delegate call to a canned answer based on the
// request shape, so one orchestrator invocation can be played end to end.
type scriptedDelegate struct {
	intentJSON  string
	timeRange   string
	generated   string
	generateErr error
}

func (d *scriptedDelegate) Complete(_ context.Context, req CompletionRequest) (string, error) {
	switch {
	case req.Instructions == sanitizerInstructions:
		return req.Input, nil
	case req.SchemaName == "SummaryIntent":
		return d.intentJSON, nil
	case strings.Contains(req.Instructions, "expression temporelle"):
		return d.timeRange, nil
	default:
		return d.generated, d.generateErr
	}
}

type recordResponder struct {
	edits   []string
	sends   []string
	editErr error
	sendErr error
}

func (r *recordResponder) Edit(_ context.Context, content string) error {
	if r.editErr != nil {
		return r.editErr
	}
	r.edits = append(r.edits, content)
	return nil
}

func (r *recordResponder) Send(_ context.Context, content string) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sends = append(r.sends, content)
	return nil
}

func testOrchestrator(t *testing.T, delegate Completer) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(delegate, "9", cest, nopLogger())
	o.Now = func() time.Time { return time.Date(2025, 7, 20, 14, 5, 0, 0, cest) }
	return o
}

func defaultTrigger() Trigger {
	return Trigger{ChannelName: "général", Content: "@Galactia résume", AuthorID: "5", Mentions: []string{"9"}}
}

func TestHandleTrigger_DeliversSummaryWithNotices(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{
		intentJSON: `{"summary":true}`,
		generated:  "Voici le résumé du raid.",
	}
	src := &fakeHistory{messages: []ChannelMessage{
		msgAt(timeAt(13, 0), "Elsia", "1", "on raid ce soir ?"),
		msgAt(timeAt(13, 5), "Keth", "2", "oui à 21h"),
	}}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), src, out, defaultTrigger())

	if outcome.State != StateDelivered {
		t.Fatalf("state=%s, want delivered", outcome.State)
	}
	if len(out.edits) != 1 {
		t.Fatalf("edits=%d, want 1", len(out.edits))
	}
	want := noticeNoTimeLimit + "\n" + noticeNoLimits + "\n\n" + "Voici le résumé du raid."
	if out.edits[0] != want {
		t.Fatalf("response=%q, want notices then summary", out.edits[0])
	}
	if outcome.Query == nil || outcome.Query.Limit != 100 {
		t.Fatalf("query=%+v, want default limit 100", outcome.Query)
	}
}

func TestHandleTrigger_ResolvesWindowAndAuthors(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{
		intentJSON: `{"summary":true,"authors":["Elsia"],"time_limit":"depuis hier","count_limit":20}`,
		timeRange:  "2025-07-19T00:00:00,2025-07-19T23:59:59",
		generated:  "Résumé ciblé.",
	}
	src := &fakeHistory{
		messages: []ChannelMessage{msgAt(timeAt(13, 0), "Elsia", "1", "salut")},
		roster:   testRoster,
	}
	out := &recordResponder{}
	o := testOrchestrator(t, delegate)

	outcome := o.HandleTrigger(context.Background(), src, out, Trigger{
		ChannelName: "général",
		Content:     "@Galactia résume les messages d'Elsia depuis hier",
		Mentions:    []string{"9"}, // only the bot: free-text authors apply
	})

	if outcome.State != StateDelivered {
		t.Fatalf("state=%s, want delivered", outcome.State)
	}
	q := outcome.Query
	if q == nil {
		t.Fatalf("missing query")
	}
	if len(q.Authors) != 1 || q.Authors[0] != "1" {
		t.Fatalf("authors=%v, want [1]", q.Authors)
	}
	wantStart := time.Date(2025, 7, 19, 0, 0, 0, 0, cest)
	if q.Window.Start == nil || !q.Window.Start.Equal(wantStart) {
		t.Fatalf("start=%v, want %v", q.Window.Start, wantStart)
	}
	// "depuis hier" is an open range: end forced to the reference time.
	if !q.Window.End.Equal(o.Now()) {
		t.Fatalf("end=%v, want now", q.Window.End)
	}
	if q.Limit != 20 || len(q.Notices) != 0 {
		t.Fatalf("limit=%d notices=%v, want 20 and none", q.Limit, q.Notices)
	}
}

func TestHandleTrigger_WrongChannelSkips(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{intentJSON: `{"summary":true,"wrong_channel":true}`}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), &fakeHistory{}, out, defaultTrigger())

	if outcome.State != StateSkipped {
		t.Fatalf("state=%s, want skipped", outcome.State)
	}
	if len(out.edits) != 1 || out.edits[0] != wrongChannelReply {
		t.Fatalf("edits=%v", out.edits)
	}
}

func TestHandleTrigger_NonSummarySkips(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{intentJSON: `{"summary":false}`}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), &fakeHistory{}, out, defaultTrigger())

	if outcome.State != StateSkipped {
		t.Fatalf("state=%s, want skipped", outcome.State)
	}
	if len(out.edits) != 1 || out.edits[0] != notSummaryReply {
		t.Fatalf("edits=%v", out.edits)
	}
}

func TestHandleTrigger_NoMessagesFound(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{intentJSON: `{"summary":true}`}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), &fakeHistory{}, out, defaultTrigger())

	if outcome.State != StateDelivered {
		t.Fatalf("state=%s, want delivered", outcome.State)
	}
	if len(out.edits) != 1 || !strings.HasPrefix(out.edits[0], "Aucun message trouvé entre ") {
		t.Fatalf("edits=%v", out.edits)
	}
	if !strings.Contains(out.edits[0], "19/07/2025 14:05") || !strings.Contains(out.edits[0], "20/07/2025 14:05") {
		t.Fatalf("window bounds missing from reply: %q", out.edits[0])
	}
}

func TestHandleTrigger_GenerationFailureAborts(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{
		intentJSON:  `{"summary":true}`,
		generateErr: errors.New("rate limited"),
	}
	src := &fakeHistory{messages: []ChannelMessage{msgAt(timeAt(13, 0), "Elsia", "1", "salut")}}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), src, out, defaultTrigger())

	if outcome.State != StateAborted {
		t.Fatalf("state=%s, want aborted", outcome.State)
	}
	if len(out.edits) != 1 || out.edits[0] != failureReply {
		t.Fatalf("edits=%v, want the generic failure notice", out.edits)
	}
}

func TestHandleTrigger_EmptyGenerationAborts(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{intentJSON: `{"summary":true}`, generated: "  "}
	src := &fakeHistory{messages: []ChannelMessage{msgAt(timeAt(13, 0), "Elsia", "1", "salut")}}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), src, out, defaultTrigger())
	if outcome.State != StateAborted {
		t.Fatalf("state=%s, want aborted", outcome.State)
	}
}

func TestHandleTrigger_EditFailureFallsBackToChunks(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{intentJSON: `{"summary":true}`, generated: "Résumé."}
	src := &fakeHistory{messages: []ChannelMessage{msgAt(timeAt(13, 0), "Elsia", "1", "salut")}}
	out := &recordResponder{editErr: errors.New("message deleted")}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), src, out, defaultTrigger())

	if outcome.State != StateDelivered {
		t.Fatalf("state=%s, want delivered via sends", outcome.State)
	}
	if len(out.sends) == 0 || !strings.Contains(strings.Join(out.sends, ""), "Résumé.") {
		t.Fatalf("sends=%v, want chunked summary", out.sends)
	}
}

func TestHandleTrigger_ResponseFitsHardLimit(t *testing.T) {
	t.Parallel()

	delegate := &scriptedDelegate{
		intentJSON: `{"summary":true}`,
		generated:  strings.Repeat("Très long résumé. ", 400),
	}
	src := &fakeHistory{messages: []ChannelMessage{msgAt(timeAt(13, 0), "Elsia", "1", "salut")}}
	out := &recordResponder{}

	outcome := testOrchestrator(t, delegate).HandleTrigger(context.Background(), src, out, defaultTrigger())
	if outcome.State != StateDelivered {
		t.Fatalf("state=%s", outcome.State)
	}
	if n := len([]rune(out.edits[0])); n > MaxResponseChars {
		t.Fatalf("response has %d runes, want <= %d", n, MaxResponseChars)
	}
}
