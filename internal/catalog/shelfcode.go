package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SuffixSeparator separates the shelf-code base from its ordinal suffix.
const SuffixSeparator = "."

// ShelfCode is a compact human-browsable identifier: a 5-character base
// (author initial + 3-digit genre code + title initial) plus an optional
// 1-based disambiguation suffix. Suffix 0 means "no suffix".
type ShelfCode struct {
	Base   string
	Suffix int
}

// String renders the code as persisted: "C003p" or "C003p.001". Suffixes are
// zero-padded to three digits and widen naturally beyond 999.
func (c ShelfCode) String() string {
	if c.Suffix <= 0 {
		return c.Base
	}
	return fmt.Sprintf("%s%s%03d", c.Base, SuffixSeparator, c.Suffix)
}

// CodeStore is the read side of the catalog store the generator needs:
// all existing rendered codes sharing a base prefix. Order is irrelevant to
// the generator; suffixes are compared numerically, never lexicographically.
type CodeStore interface {
	FindCodesByPrefix(prefix string) ([]string, error)
}

// Generator allocates shelf codes against a catalog store. The store read is
// an optimistic hint only; uniqueness is enforced by the store's unique
// index, and the registrar retries once on a duplicate-code insert.
type Generator struct {
	taxonomy *Taxonomy
	store    CodeStore
}

// NewGenerator creates a shelf code generator.
func NewGenerator(taxonomy *Taxonomy, store CodeStore) *Generator {
	return &Generator{taxonomy: taxonomy, store: store}
}

// Base computes the 5-character base without consulting the store.
// Returns ErrUnknownGenre or ErrInvalidInput.
func (g *Generator) Base(genre, authorFullName, title string) (string, error) {
	code, ok := g.taxonomy.CodeFor(genre)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGenre, strings.TrimSpace(genre))
	}

	author := strings.TrimSpace(authorFullName)
	title = strings.TrimSpace(title)
	if author == "" || title == "" {
		return "", ErrInvalidInput
	}

	// Author initial comes from the last whitespace-delimited name token.
	tokens := strings.Fields(author)
	surname := tokens[len(tokens)-1]

	authorInitial := unicode.ToUpper(firstRune(surname))
	titleInitial := unicode.ToLower(firstRune(title))

	return string(authorInitial) + code + string(titleInitial), nil
}

// Generate computes the next free shelf code for the given genre, author and
// title. With no prior code sharing the base, the bare base is returned;
// otherwise the highest existing numeric suffix plus one. Non-numeric
// suffixes (corrupt or legacy rows) are ignored, so a base followed only by
// garbage allocates ".001".
func (g *Generator) Generate(genre, authorFullName, title string) (ShelfCode, error) {
	base, err := g.Base(genre, authorFullName, title)
	if err != nil {
		return ShelfCode{}, err
	}

	existing, err := g.store.FindCodesByPrefix(base)
	if err != nil {
		return ShelfCode{}, fmt.Errorf("read existing codes for %s: %w", base, err)
	}
	if len(existing) == 0 {
		return ShelfCode{Base: base}, nil
	}

	maxSuffix := 0
	for _, code := range existing {
		if code == base {
			continue
		}
		rest := strings.TrimPrefix(code, base+SuffixSeparator)
		if rest == code {
			// Shares the prefix but is not this base (defensive; all
			// bases are the same width so this should not happen).
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > maxSuffix {
			maxSuffix = n
		}
	}

	return ShelfCode{Base: base, Suffix: maxSuffix + 1}, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
