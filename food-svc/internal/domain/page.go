package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to >= 1 and limit to [1, MaxPageLimit]; a zero limit
// becomes def.
func NewPage(page, limit, def int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 || total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
