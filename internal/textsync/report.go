// Package textsync folds freshly parsed source text into a prior binary
// AST, preserving declaration UUIDs across edits (spec.md 4.4).
package textsync

// Report summarizes one sync pass by declaration name, across every
// declaration kind (functions, classes, traits, enums, errors).
type Report struct {
	Added     []string
	Removed   []string
	Modified  []string // renamed: matched an old declaration by structural similarity
	Unchanged []string
}

func (r *Report) recordAdded(name string)     { r.Added = append(r.Added, name) }
func (r *Report) recordRemoved(name string)   { r.Removed = append(r.Removed, name) }
func (r *Report) recordModified(name string)  { r.Modified = append(r.Modified, name) }
func (r *Report) recordUnchanged(name string) { r.Unchanged = append(r.Unchanged, name) }
