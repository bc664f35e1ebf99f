package shared

// Filter holds common listing options for repository queries
type Filter struct {
	Search   string
	OrderBy  string
	OrderDir string
	Limit    int
}

// Normalize fills in defaults for unset filter fields. A negative Limit is
// kept as-is and means "no limit".
func (f *Filter) Normalize() {
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir != "asc" && f.OrderDir != "desc" {
		f.OrderDir = "desc"
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
}
