package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
)

type ExpectedPaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockExpectedPaymentRepository
	service         portssvc.ExpectedPaymentSvcFacade
}

func (s *ExpectedPaymentServiceTestSuite) SetupTest() {
	s.mockPaymentRepo = new(MockExpectedPaymentRepository)
	s.service = services.NewExpectedPaymentService(s.mockPaymentRepo)
}

func (s *ExpectedPaymentServiceTestSuite) seedPayment() domain.ExpectedPayment {
	return domain.ExpectedPayment{
		CompanyID:                "co-1",
		TenantID:                 "tenant-1",
		ContractID:               "C-0042",
		AccountIBAN:              matchTestIBAN,
		ExpectedAmountMinorUnits: 85000,
		DueDate:                  date(2026, time.April, 5),
		PayerNameHint:            "Juan Perez",
		ReferenceHint:            "C-0042",
	}
}

func (s *ExpectedPaymentServiceTestSuite) TestCreateExpectedPayment_Success() {
	ctx := context.Background()

	s.mockPaymentRepo.On("CreateExpectedPayment", ctx, mock.MatchedBy(func(p domain.ExpectedPayment) bool {
		return p.ExpectedPaymentID != "" &&
			p.Status == domain.PaymentPending &&
			p.MatchedTransactionID == nil &&
			p.CreatedBy == "user-1"
	})).Return(nil).Once()

	created, err := s.service.CreateExpectedPayment(ctx, s.seedPayment(), "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.NotEmpty(created.ExpectedPaymentID)
	s.Equal(domain.PaymentPending, created.Status)
	s.Equal("user-1", created.CreatedBy)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *ExpectedPaymentServiceTestSuite) TestCreateExpectedPayment_Duplicate() {
	ctx := context.Background()

	s.mockPaymentRepo.On("CreateExpectedPayment", ctx, mock.AnythingOfType("domain.ExpectedPayment")).
		Return(apperrors.ErrDuplicate).Once()

	created, err := s.service.CreateExpectedPayment(ctx, s.seedPayment(), "user-1")

	s.Require().Error(err)
	s.Nil(created)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *ExpectedPaymentServiceTestSuite) TestCreateExpectedPayment_RejectsNonPositiveAmount() {
	ctx := context.Background()

	payment := s.seedPayment()
	payment.ExpectedAmountMinorUnits = 0

	created, err := s.service.CreateExpectedPayment(ctx, payment, "user-1")

	s.Require().Error(err)
	s.Nil(created)
	s.ErrorIs(err, services.ErrNonPositiveAmount)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "CreateExpectedPayment")
}

func (s *ExpectedPaymentServiceTestSuite) TestCreateExpectedPayment_RejectsMissingContract() {
	ctx := context.Background()

	payment := s.seedPayment()
	payment.ContractID = ""

	created, err := s.service.CreateExpectedPayment(ctx, payment, "user-1")

	s.Require().Error(err)
	s.Nil(created)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExpectedPaymentServiceTestSuite) TestCreateExpectedPayment_RejectsZeroDueDate() {
	ctx := context.Background()

	payment := s.seedPayment()
	payment.DueDate = time.Time{}

	created, err := s.service.CreateExpectedPayment(ctx, payment, "user-1")

	s.Require().Error(err)
	s.Nil(created)
	s.ErrorIs(err, services.ErrDueDateRequired)
}

func TestExpectedPaymentService(t *testing.T) {
	suite.Run(t, new(ExpectedPaymentServiceTestSuite))
}
