package transcript

import (
	"strings"
	"sync"
)

// Segment is a finalized transcript fragment with its time range in seconds.
type Segment struct {
	Text      string
	StartTime float64
	EndTime   float64
}

// Line accumulates one language's transcript: an append-only sequence of
// concluded segments plus at most one tentative text, replaced wholesale on
// every update. Cumulative text is maintained incrementally so that lines
// surviving thousands of updates never re-join the full segment list.
type Line struct {
	language  string
	segments  []Segment
	text      strings.Builder
	tentative string
	finished  bool
}

func newLine(language string) *Line {
	return &Line{language: language}
}

func (l *Line) apply(concluded []Segment, tentative string) {
	for _, seg := range concluded {
		l.segments = append(l.segments, seg)
		if seg.Text == "" {
			continue
		}
		if l.text.Len() > 0 {
			l.text.WriteByte(' ')
		}
		l.text.WriteString(seg.Text)
	}
	l.tentative = tentative
}

func (l *Line) finish() {
	l.finished = true
	l.tentative = ""
}

// LineResult is an immutable snapshot of a Line.
type LineResult struct {
	Language  string
	Text      string
	Tentative string
	Segments  []Segment
	Finished  bool
}

func (l *Line) snapshot() LineResult {
	segs := make([]Segment, len(l.segments))
	copy(segs, l.segments)
	return LineResult{
		Language:  l.language,
		Text:      l.text.String(),
		Tentative: l.tentative,
		Segments:  segs,
		Finished:  l.finished,
	}
}

// SessionResult is the assembled multi-language transcript of one session.
// Target lines keep the caller's configured order.
type SessionResult struct {
	SessionID string
	Source    LineResult
	Targets   []LineResult
}

// Accumulator merges incremental transcript updates for the source line and
// each configured target line independently.
type Accumulator struct {
	mu      sync.Mutex
	source  *Line
	targets map[string]*Line
	order   []string
}

func NewAccumulator(sourceLanguage string, targetLanguages []string) *Accumulator {
	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	a := &Accumulator{
		source:  newLine(sourceLanguage),
		targets: make(map[string]*Line, len(targetLanguages)),
		order:   make([]string, 0, len(targetLanguages)),
	}
	for _, lang := range targetLanguages {
		if _, ok := a.targets[lang]; ok {
			continue
		}
		a.targets[lang] = newLine(lang)
		a.order = append(a.order, lang)
	}
	return a
}

func (a *Accumulator) ApplySource(concluded []Segment, tentative string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source.apply(concluded, tentative)
}

// ApplyTarget merges an update into the named target line. Updates for a
// language that was never requested are dropped and reported via the return
// value.
func (a *Accumulator) ApplyTarget(language string, concluded []Segment, tentative string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	line, ok := a.targets[language]
	if !ok {
		return false
	}
	line.apply(concluded, tentative)
	return true
}

func (a *Accumulator) FinishSource() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source.finish()
}

func (a *Accumulator) FinishTarget(language string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	line, ok := a.targets[language]
	if !ok {
		return false
	}
	line.finish()
	return true
}

func (a *Accumulator) SourceText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.source.text.String()
}

func (a *Accumulator) TargetText(language string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	line, ok := a.targets[language]
	if !ok {
		return ""
	}
	return line.text.String()
}

// Result snapshots the accumulated transcript. Concluded segments are copied;
// the accumulator itself stays usable, but a terminal result is expected to
// be taken exactly once.
func (a *Accumulator) Result(sessionID string) *SessionResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := &SessionResult{
		SessionID: sessionID,
		Source:    a.source.snapshot(),
		Targets:   make([]LineResult, 0, len(a.order)),
	}
	for _, lang := range a.order {
		res.Targets = append(res.Targets, a.targets[lang].snapshot())
	}
	return res
}
