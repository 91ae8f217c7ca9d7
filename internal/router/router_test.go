package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/router"
)

type principal struct {
	id, role, email string
}

var (
	company  = principal{id: "company-1", role: "company", email: "shop@acme.test"}
	company2 = principal{id: "company-2", role: "company", email: "other@acme.test"}
	owner    = principal{id: "owner-1", role: "pet_owner", email: "ana@mail.test"}
	admin    = principal{id: "admin-1", role: "admin"}
	anon     = principal{}
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		WaitlistRatePerMin: 100,
		AnalyticsCacheTTL:  time.Minute,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_ProfileCreatedOnFirstRead(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/api/companies/profile", company, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}
	var first struct {
		Data struct {
			ID            string                    `json:"id"`
			Verified      bool                      `json:"verified"`
			BusinessHours map[string]map[string]any `json:"businessHours"`
			CreatedAt     time.Time                 `json:"createdAt"`
		} `json:"data"`
	}
	decode(t, body, &first)
	if first.Data.ID != company.id || first.Data.Verified {
		t.Fatalf("unexpected profile %+v", first.Data)
	}
	if len(first.Data.BusinessHours) != 7 || first.Data.BusinessHours["sunday"]["closed"] != true {
		t.Fatalf("expected default business hours, got %v", first.Data.BusinessHours)
	}

	_, body = doReq(t, ts.URL, "GET", "/api/companies/profile", company, nil)
	var second struct {
		Data struct {
			ID        string    `json:"id"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"data"`
	}
	decode(t, body, &second)
	if second.Data.ID != first.Data.ID || !second.Data.CreatedAt.Equal(first.Data.CreatedAt) {
		t.Fatalf("expected same persisted row, got %+v", second.Data)
	}
}

func TestHTTP_ProfileVerificationFollowsCompleteness(t *testing.T) {
	ts := newServer(t)

	full := completeProfile()
	st, body := doReq(t, ts.URL, "PUT", "/api/companies/profile", company, full)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}
	if !verifiedFlag(t, body) {
		t.Fatalf("expected verified=true with complete profile")
	}

	for _, field := range []string{"name", "address", "city", "description"} {
		partial := completeProfile()
		delete(partial, field)
		_, body := doReq(t, ts.URL, "PUT", "/api/companies/profile", company, partial)
		if verifiedFlag(t, body) {
			t.Fatalf("expected verified=false without %s", field)
		}
	}
}

func TestHTTP_BusinessHoursRoundTrip(t *testing.T) {
	ts := newServer(t)

	hours := map[string]any{
		"monday": map[string]any{"open": "08:00", "close": "12:30"},
		"friday": map[string]any{"open": "10:00", "close": "18:00"},
		"sunday": map[string]any{"closed": true},
	}
	payload := completeProfile()
	payload["businessHours"] = hours
	if st, body := doReq(t, ts.URL, "PUT", "/api/companies/profile", company, payload); st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}

	_, body := doReq(t, ts.URL, "GET", "/api/companies/profile", company, nil)
	var resp struct {
		Data struct {
			BusinessHours map[string]any `json:"businessHours"`
		} `json:"data"`
	}
	decode(t, body, &resp)
	if !reflect.DeepEqual(resp.Data.BusinessHours, hours) {
		t.Fatalf("business hours changed on round trip: %v", resp.Data.BusinessHours)
	}

	payload["businessHours"] = map[string]any{"Monday": map[string]any{"open": "08:00", "close": "12:30"}}
	if st, _ := doReq(t, ts.URL, "PUT", "/api/companies/profile", company, payload); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-canonical weekday key, got %d", st)
	}
}

func TestHTTP_EmployeeEmailUniquePerCompany(t *testing.T) {
	ts := newServer(t)

	emp := map[string]any{"firstName": "Lu", "lastName": "Perez", "email": "lu@acme.test"}
	createEmployee(t, ts.URL, company, emp)

	emp["email"] = "LU@acme.test"
	st, _ := doReq(t, ts.URL, "POST", "/api/employees", company, emp)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate email, got %d", st)
	}

	_, body := doReq(t, ts.URL, "GET", "/api/employees", company, nil)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, body, &list)
	if len(list.Data) != 1 {
		t.Fatalf("expected one employee row, got %d", len(list.Data))
	}

	createEmployee(t, ts.URL, company2, emp)
}

func TestHTTP_BookingFlow_AvailabilityDeactivationAndAnalytics(t *testing.T) {
	ts := newServer(t)
	f := setupMarketplace(t, ts.URL)

	// Empresa sin reservas => overview en cero.
	st, body := doReq(t, ts.URL, "GET", "/api/companies/analytics/overview", company, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}
	var ov struct {
		Data map[string]float64 `json:"data"`
	}
	decode(t, body, &ov)
	for _, k := range []string{"totalBookings", "totalRevenue", "averageRating", "totalReviews", "newCustomers", "returningCustomers"} {
		if v, ok := ov.Data[k]; !ok || v != 0 {
			t.Fatalf("expected %s=0, got %v (present=%v)", k, v, ok)
		}
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	bookingID := createBooking(t, ts.URL, map[string]any{
		"companyId":  company.id,
		"serviceId":  f.serviceID,
		"petId":      f.petID,
		"employeeId": f.employeeID,
		"date":       tomorrow,
		"time":       "10:00",
	})

	// Solapado con [10:00, 11:00) => no disponible.
	if ids := availableIDs(t, ts.URL, tomorrow, "10:30", 30); contains(ids, f.employeeID) {
		t.Fatalf("employee with overlapping booking listed as available")
	}
	if ids := availableIDs(t, ts.URL, tomorrow, "11:00", 30); !contains(ids, f.employeeID) {
		t.Fatalf("expected employee available right after the booking, got %v", ids)
	}

	// Otra reserva con el mismo empleado y horario solapado => 409.
	st, _ = doReq(t, ts.URL, "POST", "/api/bookings", owner, map[string]any{
		"companyId":  company.id,
		"serviceId":  f.serviceID,
		"petId":      f.petID,
		"employeeId": f.employeeID,
		"date":       tomorrow,
		"time":       "10:15",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 for busy employee, got %d", st)
	}

	// Con una reserva pending el empleado no se puede desactivar.
	st, _ = doReq(t, ts.URL, "DELETE", "/api/employees/"+f.employeeID, company, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 deactivating busy employee, got %d", st)
	}

	setStatus(t, ts.URL, company, bookingID, "confirmed", http.StatusOK)
	setStatus(t, ts.URL, company, bookingID, "completed", http.StatusOK)
	setStatus(t, ts.URL, company, bookingID, "pending", http.StatusConflict)

	st, body = doReq(t, ts.URL, "DELETE", "/api/employees/"+f.employeeID, company, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 deactivating idle employee, got %d body=%s", st, body)
	}
	_, body = doReq(t, ts.URL, "GET", "/api/employees/"+f.employeeID, company, nil)
	var emp struct {
		Data struct {
			Active bool `json:"active"`
		} `json:"data"`
	}
	decode(t, body, &emp)
	if emp.Data.Active {
		t.Fatalf("expected row kept with active=false")
	}

	st, body = doReq(t, ts.URL, "POST", "/api/reviews", owner, map[string]any{
		"bookingId": bookingID,
		"rating":    4,
		"comment":   "great",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 review, got %d body=%s", st, body)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/reviews", owner, map[string]any{"bookingId": bookingID, "rating": 5}); st != http.StatusConflict {
		t.Fatalf("expected 409 on second review, got %d", st)
	}

	// El cache de analytics se invalida con cada cambio.
	_, body = doReq(t, ts.URL, "GET", "/api/companies/analytics/overview", company, nil)
	decode(t, body, &ov)
	want := map[string]float64{
		"totalBookings":      1,
		"totalRevenue":       25.5,
		"averageRating":      4,
		"totalReviews":       1,
		"newCustomers":       1,
		"returningCustomers": 0,
	}
	for k, v := range want {
		if ov.Data[k] != v {
			t.Fatalf("expected %s=%v, got %v", k, v, ov.Data[k])
		}
	}

	// Otra empresa no ve la reserva.
	_, body = doReq(t, ts.URL, "GET", "/api/bookings", company2, nil)
	var other struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, body, &other)
	if len(other.Data) != 0 {
		t.Fatalf("tenant leak: %v", other.Data)
	}
}

func TestHTTP_WaitlistDuplicates(t *testing.T) {
	ts := newServer(t)

	join := map[string]any{"email": "fan@mail.test", "type": "mobile_app"}
	if st, body := doReq(t, ts.URL, "POST", "/api/waitlist", anon, join); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, body)
	}
	join["email"] = "FAN@mail.test"
	if st, _ := doReq(t, ts.URL, "POST", "/api/waitlist", anon, join); st != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", st)
	}
	join["type"] = "business_app"
	if st, _ := doReq(t, ts.URL, "POST", "/api/waitlist", anon, join); st != http.StatusCreated {
		t.Fatalf("expected 201 for other type, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/waitlist", company, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for non admin, got %d", st)
	}
	_, body := doReq(t, ts.URL, "GET", "/api/waitlist?type=mobile_app", admin, nil)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, body, &list)
	if len(list.Data) != 1 {
		t.Fatalf("expected exactly one mobile_app row, got %d", len(list.Data))
	}
}

func TestHTTP_WaitlistLimitIgnoresForwardedForByDefault(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{WaitlistRatePerMin: 1}))
	defer ts.Close()

	join := func(email, forwarded string) int {
		b, _ := json.Marshal(map[string]any{"email": email})
		req, err := http.NewRequest("POST", ts.URL+"/api/waitlist", bytes.NewReader(b))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		res.Body.Close()
		return res.StatusCode
	}

	if st := join("a@mail.test", "203.0.113.1"); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d", st)
	}
	if st := join("b@mail.test", "203.0.113.2"); st != http.StatusTooManyRequests {
		t.Fatalf("expected 429 despite rotated X-Forwarded-For, got %d", st)
	}
}

func TestHTTP_AuthRequired(t *testing.T) {
	ts := newServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/api/companies/profile", anon, nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/companies/profile", owner, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for pet owner, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/health", anon, nil); st != http.StatusOK {
		t.Fatalf("expected 200 on health, got %d", st)
	}
}

type fixture struct {
	serviceID, employeeID, petID string
}

func setupMarketplace(t *testing.T, baseURL string) fixture {
	t.Helper()

	if st, body := doReq(t, baseURL, "PUT", "/api/companies/profile", company, completeProfile()); st != http.StatusOK {
		t.Fatalf("profile: %d body=%s", st, body)
	}
	var f fixture

	st, body := doReq(t, baseURL, "POST", "/api/services", company, map[string]any{
		"name":     "Bath",
		"category": "grooming",
		"price":    25.5,
		"duration": 60,
	})
	if st != http.StatusCreated {
		t.Fatalf("create service: %d body=%s", st, body)
	}
	f.serviceID = idOf(t, body)

	f.employeeID = createEmployee(t, baseURL, company, map[string]any{
		"firstName": "Lu", "lastName": "Perez", "email": "lu@acme.test",
	})

	st, body = doReq(t, baseURL, "POST", "/api/pets", owner, map[string]any{
		"name": "Milo", "species": "dog", "sex": "male",
	})
	if st != http.StatusCreated {
		t.Fatalf("create pet: %d body=%s", st, body)
	}
	f.petID = idOf(t, body)
	return f
}

func completeProfile() map[string]any {
	return map[string]any{
		"name":        "Acme Pets",
		"email":       "shop@acme.test",
		"address":     "Main St 1",
		"city":        "Lima",
		"description": "Grooming and daycare",
	}
}

func createEmployee(t *testing.T, baseURL string, p principal, payload map[string]any) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/employees", p, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create employee, got %d body=%s", st, body)
	}
	return idOf(t, body)
}

func createBooking(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/bookings", owner, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create booking, got %d body=%s", st, body)
	}
	return idOf(t, body)
}

func setStatus(t *testing.T, baseURL string, p principal, bookingID, status string, want int) {
	t.Helper()
	st, body := doReq(t, baseURL, "PATCH", "/api/bookings/"+bookingID+"/status", p, map[string]any{"status": status})
	if st != want {
		t.Fatalf("status %s: expected %d, got %d body=%s", status, want, st, body)
	}
}

func availableIDs(t *testing.T, baseURL, date, at string, duration int) []string {
	t.Helper()
	path := "/api/employees/available?date=" + date + "&time=" + at + "&duration=" + strconv.Itoa(duration)
	st, body := doReq(t, baseURL, "GET", path, company, nil)
	if st != http.StatusOK {
		t.Fatalf("available: %d body=%s", st, body)
	}
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, body, &resp)
	out := make([]string, 0, len(resp.Data))
	for _, e := range resp.Data {
		out = append(out, e.ID)
	}
	return out
}

func verifiedFlag(t *testing.T, body []byte) bool {
	t.Helper()
	var resp struct {
		Data struct {
			Verified bool `json:"verified"`
		} `json:"data"`
	}
	decode(t, body, &resp)
	return resp.Data.Verified
}

func idOf(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, body, &resp)
	if resp.Data.ID == "" {
		t.Fatalf("missing id body=%s", body)
	}
	return resp.Data.ID
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode: %v body=%s", err, body)
	}
}

func doReq(t *testing.T, baseURL, method, path string, p principal, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.id != "" {
		req.Header.Set(middleware.HeaderDebugUserID, p.id)
		req.Header.Set(middleware.HeaderDebugRole, p.role)
		if p.email != "" {
			req.Header.Set(middleware.HeaderDebugEmail, p.email)
		}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}
