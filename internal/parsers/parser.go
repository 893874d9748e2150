// Package parsers decodes legacy bank statement files into raw transactions.
//
// Each supported format is an independent StatementParser implementation
// behind the same contract: a malformed individual record is skipped and
// reported, a structurally invalid file fails the whole parse. New formats
// are added as new implementations, never by branching inside an existing
// parser.
package parsers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// StatementParser decodes one statement file format.
type StatementParser interface {
	// Format identifies the statement format this parser handles.
	Format() domain.StatementFormat

	// Parse decodes raw file bytes into statement lines, cross-checking the
	// declared account IBAN. Individual bad records are skipped and counted
	// in the report; a structurally broken file returns an error wrapping
	// apperrors.ErrParse and no partial results.
	Parse(data []byte, declaredIBAN string) ([]domain.RawTransaction, domain.ParseReport, error)
}

// ParserFor returns the parser for the given format.
func ParserFor(format domain.StatementFormat) (StatementParser, error) {
	switch format {
	case domain.FormatNorma43:
		return &Norma43Parser{}, nil
	case domain.FormatCamt053:
		return &Camt053Parser{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported statement format %q", apperrors.ErrValidation, format)
	}
}

var hundred = decimal.New(1, 2)

// AmountToMinorUnits parses a decimal amount string into signed integer cents.
// Both comma and dot are accepted as decimal separator; when both appear the
// rightmost one is the decimal separator and the other marks thousands.
// An amount with more than two fraction digits fails with ErrPrecisionLoss
// rather than rounding silently.
func AmountToMinorUnits(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty amount", apperrors.ErrValidation)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ",") > 1:
		// Multiple commas can only be thousands separators.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, s)
	}

	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has sub-cent precision", apperrors.ErrPrecisionLoss, s)
	}
	return minor.IntPart(), nil
}

// ibanMatchesAccount reports whether a declared IBAN plausibly refers to the
// bank/branch/account triplet found in the statement file. Spanish IBANs
// embed the 20-digit CCC (entity, office, control digits, account number).
func ibanMatchesAccount(iban, entity, office, account string) bool {
	digits := compactIBAN(iban)
	if len(digits) < len(account) {
		return false
	}
	return strings.HasSuffix(digits, account) && strings.Contains(digits, entity+office)
}

func compactIBAN(iban string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(iban))
}
