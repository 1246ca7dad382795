package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"urlmapper/internal/database"
	"urlmapper/internal/models"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, code, targetURL string) (*models.URLMapping, error) {
	args := r.Called(ctx, code, targetURL)
	m, _ := args.Get(0).(*models.URLMapping)
	return m, args.Error(1)
}

func (r *MockURLRepository) GetByTargetURL(ctx context.Context, targetURL string) (*models.URLMapping, error) {
	args := r.Called(ctx, targetURL)
	m, _ := args.Get(0).(*models.URLMapping)
	return m, args.Error(1)
}

func (r *MockURLRepository) Visit(ctx context.Context, code string) (*models.URLMapping, error) {
	args := r.Called(ctx, code)
	m, _ := args.Get(0).(*models.URLMapping)
	return m, args.Error(1)
}

func (r *MockURLRepository) GetByCode(ctx context.Context, code string) (*models.URLMapping, error) {
	args := r.Called(ctx, code)
	m, _ := args.Get(0).(*models.URLMapping)
	return m, args.Error(1)
}

type MappingServiceTestSuite struct {
	suite.Suite
	errUnknown error
	repoMock   *MockURLRepository
	svc        *MappingService
}

func (suite *MappingServiceTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *MappingServiceTestSuite) SetupSubTest() {
	suite.repoMock = new(MockURLRepository)
	suite.svc = NewMappingService(suite.repoMock, 6)
}

func (suite *MappingServiceTestSuite) TearDownSubTest() {
	suite.repoMock.AssertExpectations(suite.T())
}

func (suite *MappingServiceTestSuite) TestShortenURL() {
	validCode := mock.MatchedBy(func(code string) bool {
		return codePattern.MatchString(code)
	})

	suite.Run("existing url returns existing mapping", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(&models.URLMapping{
				Code:      "abc123",
				TargetURL: "https://example.com",
				Visits:    2,
			}, nil)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(m)
		suite.Equal("abc123", m.Code)
		suite.repoMock.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("lookup error", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(nil, suite.errUnknown)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(m)
	})

	suite.Run("maximum attempts error", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.repoMock.
			On("Create", context.Background(), validCode, "https://example.com").
			Times(10).
			Return(nil, database.ErrCodeExists)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, ErrCodeSpaceExhausted)
		suite.Nil(m)
	})

	suite.Run("create error", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.repoMock.
			On("Create", context.Background(), validCode, "https://example.com").
			Once().
			Return(nil, suite.errUnknown)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(m)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.repoMock.
			On("Create", context.Background(), validCode, "https://example.com").
			Once().
			Return(&models.URLMapping{
				Code:      "abc123",
				TargetURL: "https://example.com",
			}, nil)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(m)
		suite.Equal("abc123", m.Code)
		suite.Equal("https://example.com", m.TargetURL)
		suite.Zero(m.Visits)
	})

	suite.Run("retries on collision then succeeds", func() {
		suite.repoMock.
			On("GetByTargetURL", context.Background(), "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.repoMock.
			On("Create", context.Background(), validCode, "https://example.com").
			Twice().
			Return(nil, database.ErrCodeExists)
		suite.repoMock.
			On("Create", context.Background(), validCode, "https://example.com").
			Once().
			Return(&models.URLMapping{
				Code:      "abc123",
				TargetURL: "https://example.com",
			}, nil)

		m, err := suite.svc.ShortenURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(m)
		suite.Equal("abc123", m.Code)
	})
}

func (suite *MappingServiceTestSuite) TestResolveCode() {
	suite.Run("url not found", func() {
		suite.repoMock.
			On("Visit", context.Background(), "abc123").
			Once().
			Return(nil, database.ErrURLNotFound)

		m, err := suite.svc.ResolveCode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(m)
	})

	suite.Run("unknown error", func() {
		suite.repoMock.
			On("Visit", context.Background(), "abc123").
			Once().
			Return(nil, suite.errUnknown)

		m, err := suite.svc.ResolveCode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(m)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("Visit", context.Background(), "abc123").
			Once().
			Return(&models.URLMapping{
				Code:      "abc123",
				TargetURL: "https://example.com",
				Visits:    1,
			}, nil)

		m, err := suite.svc.ResolveCode(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(m)
		suite.Equal("https://example.com", m.TargetURL)
		suite.Equal(int64(1), m.Visits)
	})
}

func (suite *MappingServiceTestSuite) TestGetURLStats() {
	suite.Run("url not found", func() {
		suite.repoMock.
			On("GetByCode", context.Background(), "abc123").
			Once().
			Return(nil, database.ErrURLNotFound)

		m, err := suite.svc.GetURLStats(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(m)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("GetByCode", context.Background(), "abc123").
			Once().
			Return(&models.URLMapping{
				Code:      "abc123",
				TargetURL: "https://example.com",
				Visits:    3,
			}, nil)

		m, err := suite.svc.GetURLStats(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(m)
		suite.Equal("abc123", m.Code)
		suite.Equal(int64(3), m.Visits)
	})
}

func TestMappingService(t *testing.T) {
	suite.Run(t, new(MappingServiceTestSuite))
}
