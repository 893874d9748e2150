package parsers

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// Norma43Parser decodes the Spanish AEB Cuaderno 43 fixed-width statement
// format. Record types: 11 account header, 22 movement, 23 concept
// continuation, 33 account trailer, 88 file trailer.
type Norma43Parser struct{}

var _ StatementParser = (*Norma43Parser)(nil)

func (p *Norma43Parser) Format() domain.StatementFormat {
	return domain.FormatNorma43
}

const (
	n43RecordAccountHeader  = "11"
	n43RecordMovement       = "22"
	n43RecordConcept        = "23"
	n43RecordAccountTrailer = "33"
	n43RecordFileTrailer    = "88"

	n43DebitFlag  = "1"
	n43CreditFlag = "2"
)

// pendingMovement buffers a movement record until its 23 continuation
// records have been seen.
type pendingMovement struct {
	txn      domain.RawTransaction
	concepts []string
}

func (p *Norma43Parser) Parse(data []byte, declaredIBAN string) ([]domain.RawTransaction, domain.ParseReport, error) {
	report := domain.ParseReport{Format: domain.FormatNorma43}

	scanner := bufio.NewScanner(bytes.NewReader(data))

	var (
		transactions  []domain.RawTransaction
		pending       *pendingMovement
		headerSeen    bool
		sequence      int
		creditCents   int64
		debitCents    int64
		creditEntries int64
		debitEntries  int64
	)

	flush := func() {
		if pending == nil {
			return
		}
		if len(pending.concepts) > 0 {
			pending.txn.CounterpartyName = pending.concepts[0]
			if extra := strings.Join(pending.concepts[1:], " "); extra != "" {
				pending.txn.RemittanceInfo = strings.TrimSpace(pending.txn.RemittanceInfo + " " + extra)
			}
		}
		transactions = append(transactions, pending.txn)
		report.Accepted++
		pending = nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 2 {
			report.Rejected++
			report.RejectReasons = append(report.RejectReasons, fmt.Sprintf("line %d: record too short", lineNo))
			continue
		}

		switch line[:2] {
		case n43RecordAccountHeader:
			if headerSeen {
				return nil, domain.ParseReport{}, fmt.Errorf("%w: duplicate account header at line %d", apperrors.ErrParse, lineNo)
			}
			headerSeen = true
			entity := n43Field(line, 2, 6)
			office := n43Field(line, 6, 10)
			account := n43Field(line, 10, 20)
			if !ibanMatchesAccount(declaredIBAN, entity, office, account) {
				return nil, domain.ParseReport{}, fmt.Errorf("%w: account %s/%s/%s does not belong to declared IBAN", apperrors.ErrParse, entity, office, account)
			}
			if opening, err := n43SignedCents(n43Field(line, 32, 33), n43Field(line, 33, 47)); err == nil {
				report.OpeningBalanceMinorUnits = &opening
			}

		case n43RecordMovement:
			if !headerSeen {
				return nil, domain.ParseReport{}, fmt.Errorf("%w: movement record before account header at line %d", apperrors.ErrParse, lineNo)
			}
			flush()
			sequence++
			txn, err := p.parseMovement(line, declaredIBAN, sequence)
			if err != nil {
				report.Rejected++
				report.RejectReasons = append(report.RejectReasons, fmt.Sprintf("line %d: %v", lineNo, err))
				continue
			}
			if txn.AmountMinorUnits >= 0 {
				creditCents += txn.AmountMinorUnits
				creditEntries++
			} else {
				debitCents += -txn.AmountMinorUnits
				debitEntries++
			}
			pending = &pendingMovement{txn: txn}

		case n43RecordConcept:
			if pending == nil {
				report.Rejected++
				report.RejectReasons = append(report.RejectReasons, fmt.Sprintf("line %d: orphan concept record", lineNo))
				continue
			}
			concept := strings.TrimSpace(n43Field(line, 4, 42) + " " + n43Field(line, 42, 80))
			if concept != "" {
				pending.concepts = append(pending.concepts, concept)
			}

		case n43RecordAccountTrailer:
			flush()
			p.checkTrailer(line, &report, creditEntries, creditCents, debitEntries, debitCents)
			if closing, err := n43SignedCents(n43Field(line, 58, 59), n43Field(line, 59, 73)); err == nil {
				report.ClosingBalanceMinorUnits = &closing
			}

		case n43RecordFileTrailer:
			flush()

		default:
			report.Rejected++
			report.RejectReasons = append(report.RejectReasons, fmt.Sprintf("line %d: unknown record type %q", lineNo, line[:2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.ParseReport{}, fmt.Errorf("%w: reading statement: %v", apperrors.ErrParse, err)
	}
	flush()

	if !headerSeen {
		return nil, domain.ParseReport{}, fmt.Errorf("%w: missing account header record (11)", apperrors.ErrParse)
	}

	return transactions, report, nil
}

func (p *Norma43Parser) parseMovement(line, declaredIBAN string, sequence int) (domain.RawTransaction, error) {
	bookingDate, err := n43Date(n43Field(line, 10, 16))
	if err != nil {
		return domain.RawTransaction{}, fmt.Errorf("invalid operation date: %w", err)
	}
	valueDate, err := n43Date(n43Field(line, 16, 22))
	if err != nil {
		// Value date is informational; fall back to the booking date.
		valueDate = bookingDate
	}

	amount, err := n43SignedCents(n43Field(line, 26, 27), n43Field(line, 27, 41))
	if err != nil {
		return domain.RawTransaction{}, err
	}

	reference := strings.TrimSpace(n43Field(line, 51, 63) + " " + n43Field(line, 63, 79))

	return domain.RawTransaction{
		AccountIBAN:       compactIBAN(declaredIBAN),
		BookingDate:       bookingDate,
		ValueDate:         valueDate,
		AmountMinorUnits:  amount,
		RemittanceInfo:    reference,
		RawSequenceNumber: sequence,
	}, nil
}

// checkTrailer cross-checks the account trailer totals against the parsed
// movements. A disagreement is recorded as a reject reason, not a fatal
// error: it usually means some movements were skipped above.
func (p *Norma43Parser) checkTrailer(line string, report *domain.ParseReport, creditEntries, creditCents, debitEntries, debitCents int64) {
	declaredDebitEntries, err1 := strconv.ParseInt(n43Field(line, 20, 25), 10, 64)
	declaredDebitCents, err2 := n43Cents(n43Field(line, 25, 39))
	declaredCreditEntries, err3 := strconv.ParseInt(n43Field(line, 39, 44), 10, 64)
	declaredCreditCents, err4 := n43Cents(n43Field(line, 44, 58))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		report.RejectReasons = append(report.RejectReasons, "account trailer: unreadable totals")
		return
	}
	if declaredDebitEntries != debitEntries || declaredDebitCents != debitCents ||
		declaredCreditEntries != creditEntries || declaredCreditCents != creditCents {
		report.RejectReasons = append(report.RejectReasons, fmt.Sprintf(
			"account trailer mismatch: declared %d debits/%d cents and %d credits/%d cents, parsed %d/%d and %d/%d",
			declaredDebitEntries, declaredDebitCents, declaredCreditEntries, declaredCreditCents,
			debitEntries, debitCents, creditEntries, creditCents))
	}
}

// n43Field extracts the [start,end) column range, padding short lines.
func n43Field(line string, start, end int) string {
	if len(line) < start {
		return ""
	}
	if len(line) < end {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

// n43Date parses the YYMMDD dates used throughout the format.
func n43Date(s string) (time.Time, error) {
	if len(s) != 6 {
		return time.Time{}, fmt.Errorf("expected YYMMDD, got %q", s)
	}
	t, err := time.Parse("060102", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// n43Cents parses a zero-padded digit field carrying an amount with two
// implicit decimals. Any non-digit content fails the record.
func n43Cents(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount field")
	}
	cents, err := strconv.ParseInt(s, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("invalid amount field %q", s)
	}
	return cents, nil
}

// n43SignedCents applies the debit/credit flag: debits negative, credits positive.
func n43SignedCents(flag, amountField string) (int64, error) {
	cents, err := n43Cents(amountField)
	if err != nil {
		return 0, err
	}
	switch flag {
	case n43DebitFlag:
		return -cents, nil
	case n43CreditFlag:
		return cents, nil
	default:
		return 0, fmt.Errorf("invalid debit/credit flag %q", flag)
	}
}
