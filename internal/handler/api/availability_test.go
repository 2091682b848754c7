//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/domain/validation"
	"salon-booking/internal/handler/api"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/builder"
	"salon-booking/tests/common/httptest"
	queriesmock "salon-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	sessions    *sessionFixture
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.sessions = newSessionFixture()

	handler := api.NewAvailabilityHandler(s.mockQueries, builder.SalonLocation())
	s.router.GET("/availability", s.sessions.middleware.OptionalSession(), handler.Get)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func availabilityView() *queries.AvailabilityView {
	cut := scheduling.Service{ID: builder.ServiceCutID, Name: "Cut", DurationMinutes: 30, PriceCents: 5000, IsActive: true}
	slots := []slot.AvailableSlot{
		{
			StaffID: builder.StaffAnnaID, StaffName: "Anna",
			Start: builder.At(0, "09:00"), End: builder.At(0, "09:30"),
			TotalDurationMinutes: 30, TotalPriceCents: 5000, Services: []scheduling.Service{cut},
		},
		{
			StaffID: builder.StaffAnnaID, StaffName: "Anna",
			Start: builder.At(1, "09:00"), End: builder.At(1, "09:30"),
			TotalDurationMinutes: 30, TotalPriceCents: 5000, Services: []scheduling.Service{cut},
		},
	}
	return &queries.AvailabilityView{
		TimeZone: "Europe/Zurich",
		Slots:    slots,
		Days:     slot.GroupByDay(slots, builder.SalonLocation()),
	}
}

func (s *AvailabilityHandlerTestSuite) TestGet() {
	cut := builder.ServiceCutID.String()
	color := builder.ServiceColorID.String()

	s.Run("success: returns slots grouped by salon day", func() {
		s.mockQueries.EXPECT().FindSlots(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q queries.AvailabilityQuery) (*queries.AvailabilityView, error) {
				s.True(builder.At(0, "00:00").Equal(q.From))
				s.True(builder.At(1, "00:00").Equal(q.To))
				s.Equal([]uuid.UUID{builder.ServiceCutID}, q.ServiceIDs)
				s.Nil(q.PreferredStaffID)
				s.Empty(q.SessionID)
				return availabilityView(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-10-20&to=2025-10-21&service_ids="+cut, nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Europe/Zurich", body.TimeZone)
		s.Equal(2, body.Count)
		s.Require().Len(body.Days, 2)
		s.Equal("2025-10-20", body.Days[0].Date)
		first := body.Days[0].Slots[0]
		s.Equal("Anna", first.StaffName)
		s.Equal(int64(5000), first.TotalPriceCents)
		s.Equal("2025-10-20T09:00:00+02:00", first.Start.Format("2006-01-02T15:04:05Z07:00"))
		s.Require().Len(first.Services, 1)
		s.Equal("Cut", first.Services[0].Name)
		s.NotEmpty(first.SlotKey)
	})

	s.Run("success: a single day when to is omitted, ids comma separated or repeated", func() {
		s.mockQueries.EXPECT().FindSlots(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q queries.AvailabilityQuery) (*queries.AvailabilityView, error) {
				s.True(q.From.Equal(q.To))
				s.Equal([]uuid.UUID{builder.ServiceCutID, builder.ServiceColorID, builder.ServiceCutID}, q.ServiceIDs)
				s.Require().NotNil(q.PreferredStaffID)
				s.Equal(builder.StaffBenID, *q.PreferredStaffID)
				return &queries.AvailabilityView{TimeZone: "Europe/Zurich"}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-10-20&service_ids="+cut+","+color+"&service_ids="+cut+"&staff_id="+builder.StaffBenID.String(), nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Zero(body.Count)
		s.NotNil(body.Days)
	})

	s.Run("success: a session token excludes the caller's own hold", func() {
		token := s.sessions.token(s.T())
		s.mockQueries.EXPECT().FindSlots(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q queries.AvailabilityQuery) (*queries.AvailabilityView, error) {
				s.Equal(token.SessionID, q.SessionID)
				return availabilityView(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-10-20&service_ids="+cut, nil, token.Value)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on malformed queries", func() {
		cases := []struct {
			name  string
			query string
		}{
			{name: "missing from", query: "service_ids=" + cut},
			{name: "missing service_ids", query: "from=2025-10-20"},
			{name: "malformed date", query: "from=20.10.2025&service_ids=" + cut},
			{name: "malformed service id", query: "from=2025-10-20&service_ids=cut"},
			{name: "malformed staff id", query: "from=2025-10-20&service_ids=" + cut + "&staff_id=anna"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability?"+tc.query, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
				assertErrorCode(s.T(), rec, api.CodeBadRequest)
			})
		}
	})

	s.Run("error: 422 Unprocessable Entity on invalid ranges", func() {
		res := validation.NewResult()
		res.Add("date range must not exceed 31 days")
		s.mockQueries.EXPECT().FindSlots(gomock.Any(), gomock.Any()).Return(nil, shared.NewValidationError(res)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?from=2025-10-01&to=2025-12-31&service_ids="+cut, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Validation failed")
		s.Contains(rec.Body.String(), "must not exceed 31 days")
	})
}
