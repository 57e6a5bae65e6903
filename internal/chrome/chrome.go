// Package chrome suspends the page framing while an exam is on screen and
// puts it back exactly as it was afterwards.
package chrome

import (
	"sync"

	"github.com/certprep/cbt/internal/domain/examconfig"
)

// ExamModeClass marks the document body while exam chrome is applied.
const ExamModeClass = "examMode"

// Surface is the document the chrome is applied to.
type Surface interface {
	SetExamMode(on bool)
	// MainStyle returns the main content's inline style; ok is false when
	// the document has no main content element.
	MainStyle() (style string, ok bool)
	SetMainStyle(style string)
}

// examOverrides are the constraints removed from the main content in exam mode.
var examOverrides = []Declaration{
	{Property: "padding-top", Value: "0"},
	{Property: "overflow", Value: "visible"},
	{Property: "max-width", Value: "none"},
}

// Snapshot is the record of one application of exam chrome.
type Snapshot struct {
	prior   string
	hasMain bool
	active  bool
}

// Apply records the main content's inline style, then marks s as in exam
// mode and overrides the style.
func Apply(s Surface) *Snapshot {
	prior, ok := s.MainStyle()
	snap := &Snapshot{prior: prior, hasMain: ok, active: true}

	s.SetExamMode(true)
	if ok {
		decls := ParseStyle(prior)
		for _, o := range examOverrides {
			decls = decls.Set(o.Property, o.Value)
		}
		s.SetMainStyle(decls.String())
	}
	return snap
}

// Prior is the inline style recorded by Apply.
func (sn *Snapshot) Prior() string { return sn.prior }

func (sn *Snapshot) Active() bool { return sn.active }

// Restore removes the exam marker and writes back the recorded style
// verbatim. Only the first call has an effect.
func (sn *Snapshot) Restore(s Surface) {
	if !sn.active {
		return
	}
	sn.active = false
	s.SetExamMode(false)
	if sn.hasMain {
		s.SetMainStyle(sn.prior)
	}
}

// Controller ties exam chrome to the UI mode: applied while the mode is
// exam, restored when it changes away or the controller is closed.
type Controller struct {
	mu      sync.Mutex
	surface Surface
	snap    *Snapshot
}

func NewController(s Surface) *Controller {
	return &Controller{surface: s}
}

func (c *Controller) SetMode(ui examconfig.UIMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ui == examconfig.UIExam {
		if c.snap == nil {
			c.snap = Apply(c.surface)
		}
		return
	}
	c.release()
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap != nil
}

// Close restores the surface if chrome is applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
}

func (c *Controller) release() {
	if c.snap != nil {
		c.snap.Restore(c.surface)
		c.snap = nil
	}
}
