package picker

import (
	"unicode"
	"unicode/utf8"
)

// PlaceholderText is shown in place of the list when nothing matches.
const PlaceholderText = "(no match)"

// Entry is one visible line of the list.
type Entry struct {
	Index       int // catalog index, or NoMatch for the placeholder
	Name        string
	Highlighted bool
}

// Session is the state of one open picker: the query being typed, the
// highlighted candidate and the scroll position of the visible window.
type Session struct {
	candidates []string
	initial    int
	query      string
	filtered   []int
	highlight  int
	offset     int
	height     int
	limit      int
}

// NewSession opens a picker over candidates with initial highlighted.
// height is the number of visible list rows and limit the maximum query
// length in characters.
func NewSession(candidates []string, initial, height, limit int) *Session {
	if height < 1 {
		height = 1
	}
	if limit < 1 {
		limit = 1
	}
	s := &Session{
		candidates: candidates,
		initial:    initial,
		height:     height,
		limit:      limit,
	}
	s.filtered, s.highlight = Recompute(candidates, "", initial)
	s.scroll()
	return s
}

func (s *Session) Query() string   { return s.query }
func (s *Session) Highlight() int  { return s.highlight }
func (s *Session) Offset() int     { return s.offset }
func (s *Session) Initial() int    { return s.initial }
func (s *Session) Height() int     { return s.height }
func (s *Session) Filtered() []int { return append([]int(nil), s.filtered...) }

// Editable reports whether the query can be changed. A single candidate
// is a fixed choice.
func (s *Session) Editable() bool {
	return len(s.candidates) > 1
}

// Type appends r to the query. Non-printable characters and characters
// past the length limit are ignored.
func (s *Session) Type(r rune) bool {
	if !s.Editable() || !unicode.IsPrint(r) {
		return false
	}
	if utf8.RuneCountInString(s.query) >= s.limit {
		return false
	}
	s.query += string(r)
	s.refilter()
	return true
}

// Backspace removes the last character of the query.
func (s *Session) Backspace() bool {
	if !s.Editable() || s.query == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(s.query)
	s.query = s.query[:len(s.query)-size]
	s.refilter()
	return true
}

// Up moves the highlight to the previous filtered candidate.
func (s *Session) Up() {
	pos := s.position()
	if pos > 0 {
		s.highlight = s.filtered[pos-1]
		s.scroll()
	}
}

// Down moves the highlight to the next filtered candidate.
func (s *Session) Down() {
	pos := s.position()
	if pos >= 0 && pos+1 < len(s.filtered) {
		s.highlight = s.filtered[pos+1]
		s.scroll()
	}
}

// Select highlights the candidate at a position of the visible window.
func (s *Session) Select(row int) bool {
	pos := s.offset + row
	if row < 0 || pos >= len(s.filtered) {
		return false
	}
	s.highlight = s.filtered[pos]
	s.scroll()
	return true
}

// Confirm returns the highlighted index. ok is false while the placeholder
// is shown, in which case the picker must stay open.
func (s *Session) Confirm() (index int, ok bool) {
	if s.highlight == NoMatch {
		return 0, false
	}
	return s.highlight, true
}

// Cancel returns the index the session was opened with.
func (s *Session) Cancel() int {
	return s.initial
}

// Visible returns the lines of the current window. When nothing matches it
// holds just the placeholder.
func (s *Session) Visible() []Entry {
	if len(s.filtered) == 0 {
		return []Entry{{Index: NoMatch, Name: PlaceholderText, Highlighted: true}}
	}

	end := min(s.offset+s.height, len(s.filtered))
	entries := make([]Entry, 0, end-s.offset)
	for _, idx := range s.filtered[s.offset:end] {
		entries = append(entries, Entry{
			Index:       idx,
			Name:        s.candidates[idx],
			Highlighted: idx == s.highlight,
		})
	}
	return entries
}

func (s *Session) refilter() {
	s.filtered, s.highlight = Recompute(s.candidates, s.query, s.highlight)
	s.scroll()
}

// position returns where the highlight sits in the filtered set, or -1.
func (s *Session) position() int {
	for i, idx := range s.filtered {
		if idx == s.highlight {
			return i
		}
	}
	return -1
}

// scroll moves the window the minimum amount that keeps the highlight visible.
func (s *Session) scroll() {
	pos := s.position()
	if pos < 0 {
		s.offset = 0
		return
	}
	if pos < s.offset {
		s.offset = pos
	}
	if pos >= s.offset+s.height {
		s.offset = pos - s.height + 1
	}
}
