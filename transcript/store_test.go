package transcript

import (
	"errors"
	"reflect"
	"testing"

	"github.com/PlatDrake2875/diarization/types"
)

func sampleSegments() []types.Segment {
	return []types.Segment{
		{ID: "p1", Speaker: "SPEAKER_00", StartTime: 0, EndTime: 1.5, Text: "hello"},
		{Speaker: "SPEAKER_01", StartTime: 1.5, EndTime: 3, Text: "hi there"},
		{Speaker: "SPEAKER_00", StartTime: 3, EndTime: 4.2, Text: "how are you"},
	}
}

func TestIngestAssignsIdentities(t *testing.T) {
	s := NewStore()
	s.Ingest(sampleSegments())

	held := s.Segments()
	if held[0].ID != "p1" {
		t.Errorf("producer id replaced: %q", held[0].ID)
	}
	seen := map[string]bool{}
	for _, seg := range held {
		if seg.ID == "" {
			t.Fatal("segment left without id")
		}
		if seen[seg.ID] {
			t.Fatalf("duplicate id %q in one batch", seg.ID)
		}
		seen[seg.ID] = true
	}
}

func TestIngestDoesNotAliasInput(t *testing.T) {
	s := NewStore()
	in := sampleSegments()
	s.Ingest(in)
	in[0].Text = "mutated"
	if s.Segments()[0].Text != "hello" {
		t.Error("store aliases the caller's slice")
	}
}

func TestUpdateFieldReplacesOneField(t *testing.T) {
	s := NewStore()
	s.Ingest(sampleSegments())
	before := s.Segments()

	after, err := s.UpdateField(before[1].ID, FieldSpeaker, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if after[1].Speaker != "Alice" {
		t.Errorf("speaker = %q, want Alice", after[1].Speaker)
	}
	if after[1].Text != before[1].Text || after[1].StartTime != before[1].StartTime {
		t.Error("unrelated fields of the edited segment changed")
	}
	if !reflect.DeepEqual(after[0], before[0]) || !reflect.DeepEqual(after[2], before[2]) {
		t.Error("untargeted segments changed")
	}
	// The previously returned collection must be untouched.
	if before[1].Speaker != "SPEAKER_01" {
		t.Error("edit mutated the prior collection in place")
	}
}

func TestUpdateFieldIdempotentNoOp(t *testing.T) {
	s := NewStore()
	s.Ingest(sampleSegments())
	id := s.Segments()[0].ID

	first, err := s.UpdateField(id, FieldText, "same value")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UpdateField(id, FieldText, "same value")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated no-op update changed the collection")
	}
}

func TestUpdateFieldUnknownID(t *testing.T) {
	s := NewStore()
	s.Ingest(sampleSegments())

	_, err := s.UpdateField("nope", FieldText, "x")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.ID != "nope" {
		t.Errorf("NotFoundError.ID = %q", nf.ID)
	}
}

func TestUpdateFieldRejectsUnknownField(t *testing.T) {
	s := NewStore()
	s.Ingest(sampleSegments())
	if _, err := s.UpdateField("p1", Field("start_time"), "9"); err == nil {
		t.Error("timing fields must not be editable through UpdateField")
	}
}

func TestOnChangeNotifiesWithFullCollection(t *testing.T) {
	s := NewStore()
	var got [][]types.Segment
	s.OnChange(func(segs []types.Segment) { got = append(got, segs) })

	s.Ingest(sampleSegments())
	if _, err := s.UpdateField("p1", FieldText, "edited"); err != nil {
		t.Fatal(err)
	}
	s.Clear()

	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3", len(got))
	}
	if len(got[0]) != 3 || len(got[1]) != 3 || len(got[2]) != 0 {
		t.Errorf("notification sizes = %d/%d/%d", len(got[0]), len(got[1]), len(got[2]))
	}
	if got[1][0].Text != "edited" {
		t.Error("edit notification carries stale collection")
	}
}

func TestExportLine(t *testing.T) {
	segments := []types.Segment{
		{Speaker: "A", StartTime: 0, EndTime: 1.5, Text: "hi"},
	}
	got := Export(segments)
	want := "[A] (00:00.000s - 00:01.500s): hi\n"
	if got != want {
		t.Errorf("Export = %q, want %q", got, want)
	}
}

func TestExportOrderAndPadding(t *testing.T) {
	segments := []types.Segment{
		{Speaker: "SPEAKER_01", StartTime: 65.25, EndTime: 125.75, Text: "later"},
		{Speaker: "SPEAKER_00", StartTime: 0.5, EndTime: 0.5, Text: "instant"},
		// 8.2 is not representable exactly; the timestamp must round to
		// the millisecond, not truncate to 08.199.
		{Speaker: "SPEAKER_00", StartTime: 8.2, EndTime: 10.1, Text: "rounded"},
	}
	got := Export(segments)
	want := "[SPEAKER_01] (01:05.250s - 02:05.750s): later\n" +
		"[SPEAKER_00] (00:00.500s - 00:00.500s): instant\n" +
		"[SPEAKER_00] (00:08.200s - 00:10.100s): rounded\n"
	if got != want {
		t.Errorf("Export = %q, want %q", got, want)
	}
}

func TestExportFileName(t *testing.T) {
	cases := map[string]string{
		"interview.wav": "interview_edited.txt",
		"board meeting": "board meeting_edited.txt",
		"":              "transcript_edited.txt",
	}
	for in, want := range cases {
		if got := ExportFileName(in); got != want {
			t.Errorf("ExportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
