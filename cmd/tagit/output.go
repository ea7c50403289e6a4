package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/detect"
	"github.com/poiesic/tagit/query"
)

type tagView struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Kind       string    `json:"kind"`
	Category   string    `json:"category"`
	Value      any       `json:"value"`
	Confidence float64   `json:"confidence"`
	Active     bool      `json:"active"`
	Created    time.Time `json:"created"`
	Modified   time.Time `json:"modified"`
}

type resultView struct {
	Line int       `json:"line"`
	Text string    `json:"text"`
	Tags []tagView `json:"tags"`
}

type queryView struct {
	Complete bool               `json:"complete"`
	Params   query.SearchParams `json:"params"`
}

func tagViews(tags []core.Tag) []tagView {
	views := make([]tagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, tagView{
			ID:         tag.ID,
			Label:      tag.Label,
			Kind:       tag.Kind.String(),
			Category:   tag.Category.String(),
			Value:      valueOf(tag.Value),
			Confidence: tag.Confidence,
			Active:     tag.Active,
			Created:    tag.Created,
			Modified:   tag.Modified,
		})
	}
	return views
}

func valueOf(v core.Value) any {
	switch v.Kind {
	case core.ValueNumber:
		return v.Number
	case core.ValueList:
		return v.List
	default:
		return v.Text
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describeTag(tag core.Tag) string {
	s := fmt.Sprintf("%s [%s] %s (%.2f)", tag.ID, tag.Category, tag.Label, tag.Confidence)
	if !tag.Active {
		s += " inactive"
	}
	return s
}

// traceMonitor prints every detection stage.
type traceMonitor struct {
	w io.Writer
}

var _ detect.Monitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(text string) {
	fmt.Fprintf(m.w, "input:     %q\n", text)
}

func (m *traceMonitor) AfterCorrection(corrected string) {
	fmt.Fprintf(m.w, "corrected: %q\n", corrected)
}

func (m *traceMonitor) AfterSegmentation(segments []string) {
	fmt.Fprintf(m.w, "segments:  %q\n", segments)
}

func (m *traceMonitor) SegmentMatched(segment string, tags []core.Tag) {
	fmt.Fprintf(m.w, "  %q -> %s\n", segment, labelList(tags))
}

func (m *traceMonitor) AfterInference(tags []core.Tag) {
	fmt.Fprintf(m.w, "inferred:  %s\n", labelList(tags))
}

func (m *traceMonitor) Finish(tags []core.Tag) {
	fmt.Fprintf(m.w, "result:    %s\n", labelList(tags))
}

func labelList(tags []core.Tag) string {
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = tag.Category.String() + ":" + tag.Label
	}
	return "[" + strings.Join(labels, ", ") + "]"
}
