package parsers

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// Camt053Parser decodes ISO 20022 camt.053 bank-to-customer statements.
type Camt053Parser struct{}

var _ StatementParser = (*Camt053Parser)(nil)

func (p *Camt053Parser) Format() domain.StatementFormat {
	return domain.FormatCamt053
}

// Minimal camt.053 document model; only the elements the reconciliation core
// consumes are mapped.
type camtDocument struct {
	XMLName   xml.Name      `xml:"Document"`
	Statement camtStatement `xml:"BkToCstmrStmt>Stmt"`
}

type camtStatement struct {
	Account  camtAccount   `xml:"Acct"`
	Balances []camtBalance `xml:"Bal"`
	Entries  []camtEntry   `xml:"Ntry"`
}

type camtAccount struct {
	IBAN string `xml:"Id>IBAN"`
}

type camtBalance struct {
	Type          string     `xml:"Tp>CdOrPrtry>Cd"`
	Amount        camtAmount `xml:"Amt"`
	CreditOrDebit string     `xml:"CdtDbtInd"`
}

type camtEntry struct {
	Amount        camtAmount  `xml:"Amt"`
	CreditOrDebit string      `xml:"CdtDbtInd"`
	Status        string      `xml:"Sts"`
	BookingDate   camtDate    `xml:"BookgDt"`
	ValueDate     camtDate    `xml:"ValDt"`
	Details       camtDetails `xml:"NtryDtls>TxDtls"`
}

type camtAmount struct {
	Currency string `xml:"Ccy,attr"`
	Value    string `xml:",chardata"`
}

type camtDate struct {
	Date     string `xml:"Dt"`
	DateTime string `xml:"DtTm"`
}

type camtDetails struct {
	DebtorName   string   `xml:"RltdPties>Dbtr>Nm"`
	CreditorName string   `xml:"RltdPties>Cdtr>Nm"`
	Unstructured []string `xml:"RmtInf>Ustrd"`
}

const (
	camtCredit = "CRDT"
	camtDebit  = "DBIT"

	camtBalanceOpening = "OPBD"
	camtBalanceClosing = "CLBD"

	camtStatusBooked = "BOOK"
)

func (p *Camt053Parser) Parse(data []byte, declaredIBAN string) ([]domain.RawTransaction, domain.ParseReport, error) {
	var doc camtDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, domain.ParseReport{}, fmt.Errorf("%w: invalid camt.053 document: %v", apperrors.ErrParse, err)
	}
	if len(doc.Statement.Entries) == 0 && doc.Statement.Account.IBAN == "" {
		return nil, domain.ParseReport{}, fmt.Errorf("%w: no BkToCstmrStmt statement found", apperrors.ErrParse)
	}

	iban := compactIBAN(doc.Statement.Account.IBAN)
	if iban != "" && iban != compactIBAN(declaredIBAN) {
		return nil, domain.ParseReport{}, fmt.Errorf("%w: statement IBAN %s does not match declared IBAN", apperrors.ErrParse, iban)
	}

	report := domain.ParseReport{Format: domain.FormatCamt053}
	p.extractBalances(doc.Statement.Balances, &report)

	var transactions []domain.RawTransaction
	for i, entry := range doc.Statement.Entries {
		sequence := i + 1
		txn, err := p.parseEntry(entry, declaredIBAN, sequence)
		if err != nil {
			report.Rejected++
			report.RejectReasons = append(report.RejectReasons, fmt.Sprintf("entry %d: %v", sequence, err))
			continue
		}
		transactions = append(transactions, txn)
		report.Accepted++
	}

	return transactions, report, nil
}

func (p *Camt053Parser) parseEntry(entry camtEntry, declaredIBAN string, sequence int) (domain.RawTransaction, error) {
	if entry.Status != "" && entry.Status != camtStatusBooked {
		return domain.RawTransaction{}, fmt.Errorf("entry status %q is not booked", entry.Status)
	}

	cents, err := AmountToMinorUnits(entry.Amount.Value)
	if err != nil {
		return domain.RawTransaction{}, err
	}

	switch entry.CreditOrDebit {
	case camtCredit:
		// Credits stay positive.
	case camtDebit:
		cents = -cents
	default:
		return domain.RawTransaction{}, fmt.Errorf("invalid credit/debit indicator %q", entry.CreditOrDebit)
	}

	bookingDate, err := camtParseDate(entry.BookingDate)
	if err != nil {
		return domain.RawTransaction{}, fmt.Errorf("invalid booking date: %w", err)
	}
	valueDate, err := camtParseDate(entry.ValueDate)
	if err != nil {
		valueDate = bookingDate
	}

	counterparty := entry.Details.DebtorName
	if counterparty == "" && cents < 0 {
		counterparty = entry.Details.CreditorName
	}

	return domain.RawTransaction{
		AccountIBAN:       compactIBAN(declaredIBAN),
		BookingDate:       bookingDate,
		ValueDate:         valueDate,
		AmountMinorUnits:  cents,
		CounterpartyName:  strings.TrimSpace(counterparty),
		RemittanceInfo:    strings.TrimSpace(strings.Join(entry.Details.Unstructured, " ")),
		RawSequenceNumber: sequence,
	}, nil
}

func (p *Camt053Parser) extractBalances(balances []camtBalance, report *domain.ParseReport) {
	for _, bal := range balances {
		cents, err := AmountToMinorUnits(bal.Amount.Value)
		if err != nil {
			continue
		}
		if bal.CreditOrDebit == camtDebit {
			cents = -cents
		}
		switch bal.Type {
		case camtBalanceOpening:
			v := cents
			report.OpeningBalanceMinorUnits = &v
		case camtBalanceClosing:
			v := cents
			report.ClosingBalanceMinorUnits = &v
		}
	}
}

func camtParseDate(d camtDate) (time.Time, error) {
	if d.Date != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(d.Date))
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}
	if d.DateTime != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(d.DateTime))
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Time{}, errors.New("missing date")
}
