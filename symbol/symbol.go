package symbol

import (
	"cmp"
	"fmt"
)

// Symbol identifies one interned text of an Interner. The zero Symbol is
// invalid and never returned by Intern. Symbols from different interners
// must not be mixed.
type Symbol struct {
	id uint32 // index + 1
}

// IsValid reports whether s was returned by an interner.
func (s Symbol) IsValid() bool { return s.id != 0 }

// Index returns the position of s in interning order, or -1 for the zero Symbol.
func (s Symbol) Index() int { return int(s.id) - 1 }

// Compare orders symbols by interning order. The zero Symbol sorts first.
func (s Symbol) Compare(o Symbol) int { return cmp.Compare(s.id, o.id) }

// Text returns the interned text of s.
func (s Symbol) Text(in *Interner) string { return in.Text(s) }

func (s Symbol) String() string {
	if !s.IsValid() {
		return "symbol(invalid)"
	}
	return fmt.Sprintf("symbol(%d)", s.Index())
}
