package dto

import (
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// ImportStatementRequest defines the form fields accompanying a statement
// upload. The file itself arrives either as a multipart "file" part or as
// the base64-encoded "contentBase64" field.
type ImportStatementRequest struct {
	CompanyID     string `form:"companyID" binding:"required"`
	Format        string `form:"format" binding:"required,oneof=NORMA43 CAMT053"`
	AccountIBAN   string `form:"accountIBAN" binding:"required"`
	ContentBase64 string `form:"contentBase64"`
}

// ImportStatementResponse defines the data returned after a statement import.
type ImportStatementResponse struct {
	Format        string   `json:"format"`
	Accepted      int      `json:"accepted"`
	Rejected      int      `json:"rejected"`
	RejectReasons []string `json:"rejectReasons,omitempty"`
	Imported      int      `json:"imported"`
	Duplicates    int      `json:"duplicates"`

	OpeningBalanceMinorUnits *int64 `json:"openingBalanceMinorUnits,omitempty"`
	ClosingBalanceMinorUnits *int64 `json:"closingBalanceMinorUnits,omitempty"`
}

// ToImportStatementResponse converts a domain.ImportReport to its DTO.
func ToImportStatementResponse(r *domain.ImportReport) ImportStatementResponse {
	return ImportStatementResponse{
		Format:                   string(r.Format),
		Accepted:                 r.Accepted,
		Rejected:                 r.Rejected,
		RejectReasons:            r.RejectReasons,
		Imported:                 r.Imported,
		Duplicates:               r.Duplicates,
		OpeningBalanceMinorUnits: r.OpeningBalanceMinorUnits,
		ClosingBalanceMinorUnits: r.ClosingBalanceMinorUnits,
	}
}
