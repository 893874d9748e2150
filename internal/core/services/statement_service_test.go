package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
)

const statementTestIBAN = "ES91 2100 0418 4502 0005 1332"

// n43Record right-pads a Norma 43 line to its 80 columns.
func n43Record(record string) string {
	if len(record) >= 80 {
		return record
	}
	return record + strings.Repeat(" ", 80-len(record))
}

// n43Fixture builds a minimal valid statement file with one rent credit.
func n43Fixture() []byte {
	lines := []string{
		n43Record("112100" + "0418" + "0200051332" + "250301" + "250331" + "2" + "00000001000000" + "978"),
		n43Record("22" + "    " + "0418" + "250305" + "250305" + "04" + "01" + "2" + "00000000098750" + "0000000000" + "000000000000" + "ALQUILER C-0042"),
		n43Record("2301" + "MARIA LOPEZ S.L."),
		n43Record("332100" + "0418" + "0200051332" + "00000" + "00000000000000" + "00001" + "00000000098750" + "2" + "00000001098750" + "978"),
		n43Record("88" + strings.Repeat("9", 18) + "000000"),
	}
	return []byte(strings.Join(lines, "\n"))
}

type StatementServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	service           portssvc.StatementSvcFacade
}

func (s *StatementServiceTestSuite) SetupTest() {
	s.mockStatementRepo = new(MockStatementRepository)
	s.service = services.NewStatementService(s.mockStatementRepo)
}

func (s *StatementServiceTestSuite) TestImportStatement_Success() {
	ctx := context.Background()

	s.mockStatementRepo.On("SaveTransactions", ctx, "co-1", mock.MatchedBy(func(txns []domain.CanonicalTransaction) bool {
		if len(txns) != 1 {
			return false
		}
		txn := txns[0]
		// The service must assign IDs and run normalization before persisting.
		return txn.TransactionID != "" &&
			txn.AmountMinorUnits == 98750 &&
			txn.NormalizedPayerName == "MARIA LOPEZ S L" &&
			txn.CreatedBy == "importer-1"
	})).Return(1, 0, nil).Once()

	report, err := s.service.ImportStatement(ctx, "co-1", domain.FormatNorma43, n43Fixture(), statementTestIBAN, "importer-1")

	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Equal(1, report.Accepted)
	s.Equal(1, report.Imported)
	s.Equal(0, report.Duplicates)
	s.mockStatementRepo.AssertExpectations(s.T())
}

func (s *StatementServiceTestSuite) TestImportStatement_ReimportCountsDuplicates() {
	ctx := context.Background()

	s.mockStatementRepo.On("SaveTransactions", ctx, "co-1", mock.Anything).Return(0, 1, nil).Once()

	report, err := s.service.ImportStatement(ctx, "co-1", domain.FormatNorma43, n43Fixture(), statementTestIBAN, "importer-1")

	s.Require().NoError(err)
	s.Equal(0, report.Imported)
	s.Equal(1, report.Duplicates)
}

func (s *StatementServiceTestSuite) TestImportStatement_UnparseableFileImportsNothing() {
	ctx := context.Background()

	// A movement record without its account header is structurally broken.
	broken := []byte(n43Record("22" + "    " + "0418" + "250305" + "250305" + "04" + "01" + "2" + "00000000098750"))

	report, err := s.service.ImportStatement(ctx, "co-1", domain.FormatNorma43, broken, statementTestIBAN, "importer-1")

	s.Require().Error(err)
	s.Nil(report)
	s.ErrorIs(err, apperrors.ErrParse)
	s.mockStatementRepo.AssertNotCalled(s.T(), "SaveTransactions")
}

func (s *StatementServiceTestSuite) TestImportStatement_RequiresCompanyAndIBAN() {
	ctx := context.Background()

	report, err := s.service.ImportStatement(ctx, "", domain.FormatNorma43, n43Fixture(), statementTestIBAN, "importer-1")
	s.Require().Error(err)
	s.Nil(report)
	s.ErrorIs(err, apperrors.ErrValidation)

	report, err = s.service.ImportStatement(ctx, "co-1", domain.FormatNorma43, n43Fixture(), "", "importer-1")
	s.Require().Error(err)
	s.Nil(report)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StatementServiceTestSuite) TestImportStatement_EmptyFileRejected() {
	ctx := context.Background()

	report, err := s.service.ImportStatement(ctx, "co-1", domain.FormatNorma43, nil, statementTestIBAN, "importer-1")

	s.Require().Error(err)
	s.Nil(report)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StatementServiceTestSuite) TestImportStatement_UnknownFormatRejected() {
	ctx := context.Background()

	report, err := s.service.ImportStatement(ctx, "co-1", domain.StatementFormat("MT940"), n43Fixture(), statementTestIBAN, "importer-1")

	s.Require().Error(err)
	s.Nil(report)
}

func TestStatementService(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
