package detect

import "github.com/poiesic/tagit/core"

// Monitor provides hooks to observe the detection process.
// Implement this interface to trace intermediate results.
type Monitor interface {
	Start(text string)
	AfterCorrection(corrected string)
	AfterSegmentation(segments []string)
	SegmentMatched(segment string, tags []core.Tag)
	AfterInference(tags []core.Tag)
	Finish(tags []core.Tag)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterCorrection(_ string)              {}
func (n *noopMonitor) AfterSegmentation(_ []string)          {}
func (n *noopMonitor) SegmentMatched(_ string, _ []core.Tag) {}
func (n *noopMonitor) AfterInference(_ []core.Tag)           {}
func (n *noopMonitor) Finish(_ []core.Tag)                   {}
