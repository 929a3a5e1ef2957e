package loan

import (
	"path"
	"strings"
)

const unknownApplicant = "Unknown"

// DisplayName prefers the personal full name, then the business name.
func (a *Application) DisplayName() string {
	return ResolveDisplayName(personalName(a.Personal), businessName(a.Business))
}

// LoanAmount returns the requested amount from whichever detail row exists.
func (a *Application) LoanAmount() float64 {
	switch {
	case a.Personal != nil:
		return a.Personal.LoanAmount
	case a.Business != nil:
		return a.Business.LoanAmount
	}
	return 0
}

// ResolveDisplayName applies the list-view fallback order to raw column values.
func ResolveDisplayName(fullName, businessName string) string {
	if s := strings.TrimSpace(fullName); s != "" {
		return s
	}
	if s := strings.TrimSpace(businessName); s != "" {
		return s
	}
	return unknownApplicant
}

func personalName(p *PersonalDetails) string {
	if p == nil {
		return ""
	}
	return p.FullName
}

func businessName(b *BusinessDetails) string {
	if b == nil {
		return ""
	}
	return b.BusinessName
}

// AttachmentView is one downloadable document on the admin detail page.
type AttachmentView struct {
	ID       uint64 `json:"id,omitempty"`
	Category string `json:"category"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Legacy   bool   `json:"legacy,omitempty"`
}

// AttachmentViews merges the attachment table with the document paths that
// older business rows stored on the detail record. Entries are keyed by
// file path; the first occurrence wins and table rows come first.
func (a *Application) AttachmentViews() []AttachmentView {
	out := make([]AttachmentView, 0, len(a.Attachments)+3)
	seen := make(map[string]struct{}, len(a.Attachments)+3)

	add := func(v AttachmentView) {
		key := normalizePath(v.FilePath)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	for _, at := range a.Attachments {
		add(AttachmentView{ID: at.ID, Category: at.DocumentCategory, FileName: at.FileName, FilePath: at.FilePath})
	}
	if b := a.Business; b != nil {
		legacy := []struct{ key, p string }{
			{"certificate_of_incorporation", b.CertificatePath},
			{"tax_clearance", b.TaxClearancePath},
			{"bank_statement", b.BankStatementPath},
		}
		for _, l := range legacy {
			add(AttachmentView{Category: categoryOf(TypeBusiness, l.key), FileName: path.Base(l.p), FilePath: l.p, Legacy: true})
		}
	}
	return out
}

// categoryOf is the schema label for a slot, or the key itself when the
// schema has no such slot.
func categoryOf(t Type, key string) string {
	if d, ok := DocumentByKey(t, key); ok {
		return d.Category
	}
	return key
}

func normalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(p), "/")
}
