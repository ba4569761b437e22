package docqa

import (
	"strings"
	"unicode/utf8"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 120
)

// DefaultSeparators lists split boundaries from most to least structural.
// The trailing empty separator cuts between characters when nothing else fits.
var DefaultSeparators = []string{
	"\n\n## ",
	"\n\n### ",
	"\n\n",
	"\n- ",
	"\n* ",
	"\n",
	" ",
	"",
}

// Splitter splits section text into overlapping chunks along structural
// boundaries. Lengths are measured in characters (runes), not bytes.
//
// Text is split on the first separator that occurs in it. Pieces shorter
// than ChunkSize are merged greedily into chunks; longer pieces are split
// again with the remaining separators. Each separator stays attached to the
// start of the piece that follows it. Consecutive chunks merged from the
// same pieces share a tail of whole pieces no longer than ChunkOverlap.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewSplitter returns a Splitter with the default size, overlap and separators.
func NewSplitter() *Splitter {
	return &Splitter{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// Validate returns an error if the splitter parameters are inconsistent.
func (s *Splitter) Validate() error {
	if s.ChunkSize <= 0 {
		return Errorf(EINVALID, "chunk size must be positive")
	}
	if s.ChunkOverlap < 0 {
		return Errorf(EINVALID, "chunk overlap must not be negative")
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return Errorf(EINVALID, "chunk overlap %d must be smaller than chunk size %d", s.ChunkOverlap, s.ChunkSize)
	}
	return nil
}

// SplitSections splits every section into chunks and tags each chunk with
// its provenance. IDs and chunk indexes are assigned sequentially across
// all sections in input order, starting at zero.
func (s *Splitter) SplitSections(sections []*RawSection) []*Chunk {
	var chunks []*Chunk
	for _, sec := range sections {
		contentLength := utf8.RuneCountInString(sec.Text)
		hasCode := sec.HasCode()

		for _, text := range s.SplitText(sec.Text) {
			if sec.AnchorID != "" {
				text = SectionHeader(sec.AnchorID) + "\n" + text
			}
			i := len(chunks)
			chunks = append(chunks, &Chunk{
				ID:            i,
				Text:          text,
				AnchorID:      sec.AnchorID,
				ParentID:      sec.ParentID,
				SourceURL:     sec.SourceURL,
				ContentLength: contentLength,
				HasCode:       hasCode,
				ChunkIndex:    i,
			})
		}
	}
	return chunks
}

// SplitText splits text into chunks of at most ChunkSize characters.
// Chunks are trimmed of surrounding whitespace and never empty.
func (s *Splitter) SplitText(text string) []string {
	separators := s.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return s.split(text, separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	var chunks []string

	// Use the first separator present in the text. The remaining ones are
	// kept for pieces that are still too long.
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge combines pieces into chunks no longer than ChunkSize, carrying the
// trailing pieces of each chunk (up to ChunkOverlap) into the next one.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.ChunkSize && len(current) > 0 {
			if chunk := joinPieces(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.ChunkOverlap || (total+n > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if chunk := joinPieces(current); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepSeparator splits text on sep, attaching each separator to the
// start of the following piece. An empty separator splits into characters.
// Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, p := range parts[1:] {
		pieces = append(pieces, sep+p)
	}
	return pieces
}

func joinPieces(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
