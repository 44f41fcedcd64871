package acceptance

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
)

func pinRequest(name string, lat, lon float64, city, country, code string) dto.PinCreateRequest {
	rating := int16(5)
	visitDate := "2026-05-10"
	return dto.PinCreateRequest{
		Status:    "visited",
		Rating:    &rating,
		VisitDate: &visitDate,
		Location: dto.PinLocationRequest{
			Name: name,
			Lat:  &lat,
			Lon:  &lon,
			Address: dto.PinLocationAddress{
				City:        &city,
				Country:     &country,
				CountryCode: &code,
			},
		},
	}
}

func (s *Suite) TestCreatePin_Success() {
	auth := s.registerUser("pins@example.com", "pinner")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Eiffel Tower", 48.8584, 2.2945, "Paris", "France", "FR"), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	pin := decodeData[domain.Pin](s, resp)
	s.NotEmpty(pin.UUID)
	s.Equal("Eiffel Tower", pin.PlaceName)
	s.InDelta(48.8584, pin.Location.Lat, 1e-6)
	s.InDelta(2.2945, pin.Location.Lon, 1e-6)
	s.Equal(domain.PinVisited, pin.Status)
	s.Require().NotNil(pin.VisitedDate)
	s.Equal("2026-05-10", pin.VisitedDate.Format("2006-01-02"))

	meResp := s.doJSON(http.MethodGet, "/api/v1/auth/me", nil, auth.AccessToken)
	defer meResp.Body.Close()
	me := decodeData[dto.UserResponse](s, meResp)
	s.Equal(1, me.TotalPinsCount)
	s.Equal(1, me.VisitedCountriesCount)
	s.Equal(1, me.VisitedCitiesCount)
}

func (s *Suite) TestCreatePin_Multipart() {
	auth := s.registerUser("multipart@example.com", "multipart")

	data, err := json.Marshal(pinRequest("Colosseum", 41.8902, 12.4922, "Rome", "Italy", "IT"))
	s.Require().NoError(err)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	s.Require().NoError(writer.WriteField("data", string(data)))

	part, err := writer.CreateFormFile("images", "colosseum.jpg")
	s.Require().NoError(err)
	_, err = part.Write([]byte("not-a-real-jpeg"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/pins", &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	pin := decodeData[domain.Pin](s, resp)
	s.Equal("Colosseum", pin.PlaceName)
}

func (s *Suite) TestCreatePin_ZeroCoordinate() {
	auth := s.registerUser("meridian@example.com", "meridian")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Royal Observatory", 51.4779, 0, "London", "United Kingdom", "GB"), auth.AccessToken)
	defer resp.Body.Close()

	// A pin on the prime meridian must survive request binding.
	s.Equal(http.StatusCreated, resp.StatusCode)

	pin := decodeData[domain.Pin](s, resp)
	s.InDelta(0, pin.Location.Lon, 1e-6)
	s.InDelta(51.4779, pin.Location.Lat, 1e-6)
}

func (s *Suite) TestCreatePin_InvalidInput() {
	auth := s.registerUser("badpin@example.com", "badpin")

	outOfRange := pinRequest("Nowhere", 95.0, 0.0, "Nowhere", "Nowhere", "XX")
	resp := s.doJSON(http.MethodPost, "/api/v1/pins", outOfRange, auth.AccessToken)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	badRating := pinRequest("Louvre", 48.8606, 2.3376, "Paris", "France", "FR")
	rating := int16(6)
	badRating.Rating = &rating
	resp = s.doJSON(http.MethodPost, "/api/v1/pins", badRating, auth.AccessToken)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	badStatus := pinRequest("Louvre", 48.8606, 2.3376, "Paris", "France", "FR")
	badStatus.Status = "maybe"
	resp = s.doJSON(http.MethodPost, "/api/v1/pins", badStatus, auth.AccessToken)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestListPins() {
	auth := s.registerUser("lister@example.com", "lister")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Sagrada Familia", 41.4036, 2.1744, "Barcelona", "Spain", "ES"), auth.AccessToken)
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/pins", nil, auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	pins := decodeData[[]domain.Pin](s, resp)
	s.Require().Len(pins, 1)
	s.Equal("Sagrada Familia", pins[0].PlaceName)
}

func (s *Suite) TestListPins_RequiresAuth() {
	resp := s.doJSON(http.MethodGet, "/api/v1/pins", nil, "")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUpdatePin() {
	auth := s.registerUser("updater@example.com", "updater")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Big Ben", 51.5007, -0.1246, "London", "United Kingdom", "GB"), auth.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decodeData[domain.Pin](s, resp)
	resp.Body.Close()

	notes := "worth the queue"
	favorite := true
	resp = s.doJSON(http.MethodPatch, "/api/v1/pins/"+created.UUID, dto.PinUpdateRequest{
		Notes:      &notes,
		IsFavorite: &favorite,
	}, auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	updated := decodeData[domain.Pin](s, resp)
	s.Require().NotNil(updated.Notes)
	s.Equal("worth the queue", *updated.Notes)
	s.True(updated.IsFavorite)
	s.Equal("Big Ben", updated.PlaceName)
}

func (s *Suite) TestUpdatePin_NotOwner() {
	owner := s.registerUser("owner@example.com", "owner")
	intruder := s.registerUser("intruder@example.com", "intruder")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Acropolis", 37.9715, 23.7257, "Athens", "Greece", "GR"), owner.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decodeData[domain.Pin](s, resp)
	resp.Body.Close()

	notes := "mine now"
	resp = s.doJSON(http.MethodPatch, "/api/v1/pins/"+created.UUID, dto.PinUpdateRequest{
		Notes: &notes,
	}, intruder.AccessToken)
	defer resp.Body.Close()

	// Another user's pin is indistinguishable from a missing one.
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestDeletePin() {
	auth := s.registerUser("deleter@example.com", "deleter")

	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest("Brandenburg Gate", 52.5163, 13.3777, "Berlin", "Germany", "DE"), auth.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decodeData[domain.Pin](s, resp)
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, "/api/v1/pins/"+created.UUID, nil, auth.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/pins", nil, auth.AccessToken)
	pins := decodeData[[]domain.Pin](s, resp)
	s.Empty(pins)
	resp.Body.Close()

	meResp := s.doJSON(http.MethodGet, "/api/v1/auth/me", nil, auth.AccessToken)
	defer meResp.Body.Close()
	me := decodeData[dto.UserResponse](s, meResp)
	s.Zero(me.TotalPinsCount)
	s.Zero(me.VisitedCountriesCount)
}
