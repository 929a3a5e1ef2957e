package loan

// Upload folders, relative to the upload root.
const (
	FolderLoans      = "loans"
	FolderCollateral = "collateral"
	FolderSignatures = "signatures"
)

// CategorySignature labels attachment rows produced from a drawn signature.
const CategorySignature = "Signature"

// Document describes one upload slot of the application form.
type Document struct {
	Key      string `json:"key"`
	Category string `json:"category"`
	Required bool   `json:"required"`
	Multiple bool   `json:"multiple"`
	Folder   string `json:"folder"`
}

var personalDocuments = []Document{
	{Key: "nrc_front", Category: "NRC Front", Required: true, Folder: FolderLoans},
	{Key: "nrc_back", Category: "NRC Back", Folder: FolderLoans},
	{Key: "proof_of_residence", Category: "Proof of Residence", Folder: FolderLoans},
	{Key: "payslip", Category: "Payslip", Folder: FolderLoans},
	{Key: "bank_statement", Category: "Bank Statement", Folder: FolderLoans},
	{Key: "collateral_photos", Category: "Collateral Photo", Multiple: true, Folder: FolderCollateral},
}

var businessDocuments = []Document{
	{Key: "certificate_of_incorporation", Category: "Certificate of Incorporation", Required: true, Folder: FolderLoans},
	{Key: "tax_clearance", Category: "Tax Clearance", Folder: FolderLoans},
	{Key: "financial_statement", Category: "Financial Statement", Folder: FolderLoans},
	{Key: "bank_statement", Category: "Bank Statement", Folder: FolderLoans},
	{Key: "director_id", Category: "Director ID", Folder: FolderLoans},
	{Key: "collateral_photos", Category: "Collateral Photo", Multiple: true, Folder: FolderCollateral},
}

// Documents returns the ordered upload schema for t. The slice is a copy.
func Documents(t Type) []Document {
	var src []Document
	switch t {
	case TypePersonal:
		src = personalDocuments
	case TypeBusiness:
		src = businessDocuments
	default:
		return nil
	}
	out := make([]Document, len(src))
	copy(out, src)
	return out
}

// DocumentByKey looks up a single slot in the schema for t.
func DocumentByKey(t Type, key string) (Document, bool) {
	for _, d := range Documents(t) {
		if d.Key == key {
			return d, true
		}
	}
	return Document{}, false
}
