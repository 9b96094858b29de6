package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/core/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, fromCode, toCode string, side domain.RateSide) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// MockCurrencyService implements portssvc.CurrencyReaderSvc
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockCurrencySvc, "ARS")
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ARS",
		Side:             domain.RateSell,
		Rate:             decimal.RequireFromString("1050.25"),
		DateEffective:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "ARS").Return(&domain.Currency{CurrencyCode: "ARS"}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Side == domain.RateSell && r.Rate.Equal(req.Rate) && r.ExchangeRateID != "" && r.CreatedBy == "user"
	})).Return(nil).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, req, "user")

	suite.Require().NoError(err)
	suite.Equal("USD", rate.FromCurrencyCode)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Rejections() {
	ctx := context.Background()
	base := dto.CreateExchangeRateRequest{FromCurrencyCode: "USD", ToCurrencyCode: "ARS", Side: domain.RateBuy, Rate: decimal.NewFromInt(1000)}

	nonPositive := base
	nonPositive.Rate = decimal.Zero
	_, err := suite.service.CreateExchangeRate(ctx, nonPositive, "user")
	suite.ErrorIs(err, apperrors.ErrValidation)

	same := base
	same.ToCurrencyCode = "USD"
	_, err = suite.service.CreateExchangeRate(ctx, same, "user")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(nil, apperrors.ErrNotFound).Once()
	_, err = suite.service.CreateExchangeRate(ctx, base, "user")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_FunctionalIsOne() {
	rate, err := suite.service.GetCurrentRate(context.Background(), "ars", domain.RateSell)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindLatestExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_Foreign() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{FromCurrencyCode: "USD", ToCurrencyCode: "ARS", Side: domain.RateSell, Rate: decimal.NewFromInt(1050)}
	suite.mockRateRepo.On("FindLatestExchangeRate", ctx, "USD", "ARS", domain.RateSell).Return(stored, nil).Once()

	rate, err := suite.service.GetCurrentRate(ctx, "USD", domain.RateSell)

	suite.Require().NoError(err)
	suite.Equal("1050", rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestGetCurrentRate_Missing() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindLatestExchangeRate", ctx, "EUR", "ARS", domain.RateMid).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCurrentRate(ctx, "EUR", domain.RateMid)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestListExchangeRates() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "USD", "ARS").Return(nil, nil).Once()
	suite.mockRateRepo.On("ListExchangeRates", ctx, "EUR", "ARS").Return(nil, assert.AnError).Once()

	rates, err := suite.service.ListExchangeRates(ctx, "usd", "ars")
	suite.Require().NoError(err)
	suite.NotNil(rates)

	_, err = suite.service.ListExchangeRates(ctx, "EUR", "ARS")
	suite.ErrorIs(err, assert.AnError)
}

func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
