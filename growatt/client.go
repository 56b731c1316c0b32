package growatt

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/evcc-io/evcc/util"
	"github.com/evcc-io/evcc/util/request"
)

const (
	SERVER_URL       = "https://server-api.growatt.com/"
	AGENT_IDENTIFIER = "Dalvik/2.1.0 (Linux; U; Android 12; https://github.com/andig/growatt)"
)

const (
	LOGIN_API          = "newTwoLoginAPI.do"
	PLANT_LIST_API     = "PlantListAPI.do"
	NEW_PLANT_LIST_API = "newPlantListAPI.do"
	PLANT_DETAIL_API   = "newPlantDetailAPI.do"
	INVERTER_API       = "newInverterAPI.do"
	TLX_API            = "TlxApi.do"
	MIX_API            = "newMixApi.do"
	DASHBOARD_API      = "newPlantAPI.do"
	STORAGE_API        = "StorageAPI.do"
	STORAGE_ENERGY_API = "StorageAPI.do?op=getEnergyOverviewData_sacolar"
	DEVICE_LIST_API    = "TwoPlantAPI.do"
	PLANT_SETTINGS_API = "PlantAPI.do"
)

// Client is a session-holding connection to the Growatt server API. The
// server tracks the login in session cookies, so a client must log in once
// and be used sequentially from a single goroutine.
type Client struct {
	log     *util.Logger
	client  *request.Helper
	direct  *request.Helper // same session, redirects suppressed
	baseURL string
	agent   string
	suffix  bool
}

type Option func(*Client)

// WithBaseURL replaces the production endpoint, e.g. for test servers.
func WithBaseURL(uri string) Option {
	return func(c *Client) { c.baseURL = uri }
}

// WithAgent replaces the default user agent.
func WithAgent(agent string) Option {
	return func(c *Client) { c.agent = agent }
}

// WithRandomAgentSuffix appends a random 5-digit suffix to the user agent
// so multiple client instances don't share a server-side fingerprint.
func WithRandomAgentSuffix() Option {
	return func(c *Client) { c.suffix = true }
}

// New creates a Growatt API client.
func New(log *util.Logger, opts ...Option) *Client {
	client := request.NewHelper(log)
	client.Jar, _ = cookiejar.New(nil)

	direct := request.NewHelper(log)
	direct.Jar = client.Jar
	direct.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	c := &Client{
		log:     log,
		client:  client,
		direct:  direct,
		baseURL: SERVER_URL,
		agent:   AGENT_IDENTIFIER,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.suffix {
		c.agent = fmt.Sprintf("%s - %05d", c.agent, rand.IntN(100000))
	}

	return c
}

// uri builds the endpoint URL. Some pages already carry a query string, so
// additional parameters are joined with '&' in that case.
func (c *Client) uri(page string, params url.Values) string {
	uri := c.baseURL + page
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(page, "?") {
			sep = "&"
		}
		uri += sep + params.Encode()
	}
	return uri
}

// roundTrip issues the request and decodes the body as a JSON object,
// ignoring the declared content type. A non-empty field unwraps that
// envelope field from the result.
func (c *Client) roundTrip(h *request.Helper, method, page string, params url.Values, body io.Reader, field string, headers ...map[string]string) (map[string]any, error) {
	headers = append(headers, map[string]string{"User-Agent": c.agent})

	req, err := request.New(method, c.uri(page, params), body, headers...)
	if err != nil {
		return nil, err
	}

	b, err := h.DoBody(req)
	if err != nil {
		return nil, err
	}

	var res map[string]any
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, &DecodeError{Raw: b, Err: err}
	}

	if field == "" {
		return res, nil
	}

	obj, ok := res[field].(map[string]any)
	if !ok {
		return nil, &ShapeError{Field: field, Raw: b}
	}

	return obj, nil
}

func (c *Client) get(page string, params url.Values, field string) (map[string]any, error) {
	return c.roundTrip(c.client, http.MethodGet, page, params, nil, field)
}

// getDirect is get without following redirects.
func (c *Client) getDirect(page string, params url.Values, field string) (map[string]any, error) {
	return c.roundTrip(c.direct, http.MethodGet, page, params, nil, field)
}

// post sends the parameters in the query string with an empty body. That is
// how the vendor apps call these endpoints and the server expects it.
func (c *Client) post(page string, params url.Values, field string) (map[string]any, error) {
	return c.roundTrip(c.client, http.MethodPost, page, params, nil, field)
}

// Login authenticates the session. Unless hashed is set, the password is
// run through HashPassword first. On success the result carries the
// server's login payload augmented with the userId and userLevel of the
// account, on rejected credentials an *AuthError is returned.
func (c *Client) Login(username, password string, hashed bool) (map[string]any, error) {
	if !hashed {
		password = HashPassword(password)
	}

	data := url.Values{
		"userName": {username},
		"password": {password},
		"NewLogin": {"1"},
	}

	back, err := c.roundTrip(c.client, http.MethodPost, LOGIN_API, nil, strings.NewReader(data.Encode()), "back", request.URLEncoding)
	if err != nil {
		return nil, err
	}

	if success, ok := back["success"].(bool); !ok || !success {
		return nil, &AuthError{Payload: back}
	}

	if user, ok := back["user"].(map[string]any); ok {
		back["userId"] = user["parentUserId"]
		back["userLevel"] = user["rightlevel"]
	}

	return back, nil
}

// PlantList returns the plants of the account.
func (c *Client) PlantList(userID string) (map[string]any, error) {
	return c.getDirect(PLANT_LIST_API, url.Values{"userId": {userID}}, "back")
}

// NewPlantList returns the plants of the account in the newer list format.
func (c *Client) NewPlantList(userID string) (map[string]any, error) {
	return c.getDirect(NEW_PLANT_LIST_API, url.Values{"userId": {userID}}, "back")
}

// PlantDetail returns plant time-series data for the given granularity and
// date. A zero date means now.
func (c *Client) PlantDetail(plantID string, ts Timespan, date time.Time) (map[string]any, error) {
	ds, err := dateString(ts, date)
	if err != nil {
		return nil, err
	}

	return c.get(PLANT_DETAIL_API, url.Values{
		"plantId": {plantID},
		"type":    {ts.param()},
		"date":    {ds},
	}, "back")
}

// InverterData returns inverter production data for the given day.
func (c *Client) InverterData(inverterID string, date time.Time) (map[string]any, error) {
	ds, err := dateString(TimespanHour, date)
	if err != nil {
		return nil, err
	}

	return c.get(INVERTER_API, url.Values{
		"op":   {"getInverterData"},
		"id":   {inverterID},
		"type": {"1"},
		"date": {ds},
	}, "")
}

// InverterDetail returns detailed inverter data.
func (c *Client) InverterDetail(inverterID string) (map[string]any, error) {
	return c.get(INVERTER_API, url.Values{
		"op":         {"getInverterDetailData"},
		"inverterId": {inverterID},
	}, "")
}

// InverterDetailTwo returns the alternate detailed inverter dataset.
func (c *Client) InverterDetailTwo(inverterID string) (map[string]any, error) {
	return c.get(INVERTER_API, url.Values{
		"op":         {"getInverterDetailData_two"},
		"inverterId": {inverterID},
	}, "")
}

// TlxData returns TLX inverter data for the given day.
func (c *Client) TlxData(tlxID string, date time.Time) (map[string]any, error) {
	ds, err := dateString(TimespanDay, date)
	if err != nil {
		return nil, err
	}

	return c.get(TLX_API, url.Values{
		"op":   {"getTlxData"},
		"id":   {tlxID},
		"type": {"1"},
		"date": {ds},
	}, "")
}

// TlxDetail returns detailed TLX inverter data.
func (c *Client) TlxDetail(tlxID string) (map[string]any, error) {
	return c.get(TLX_API, url.Values{
		"op": {"getTlxDetailData"},
		"id": {tlxID},
	}, "")
}

// MixInfo returns mix system info. plantID is optional and may be empty.
func (c *Client) MixInfo(mixID, plantID string) (map[string]any, error) {
	params := url.Values{
		"op":    {"getMixInfo"},
		"mixId": {mixID},
	}
	if plantID != "" {
		params.Set("plantId", plantID)
	}

	return c.get(MIX_API, params, "obj")
}

// MixTotals returns the mix energy overview.
func (c *Client) MixTotals(mixID, plantID string) (map[string]any, error) {
	return c.post(MIX_API, url.Values{
		"op":      {"getEnergyOverview"},
		"mixId":   {mixID},
		"plantId": {plantID},
	}, "obj")
}

// MixSystemStatus returns the current power flows of the mix system.
func (c *Client) MixSystemStatus(mixID, plantID string) (map[string]any, error) {
	return c.post(MIX_API, url.Values{
		"op":      {"getSystemStatus_KW"},
		"mixId":   {mixID},
		"plantId": {plantID},
	}, "obj")
}

// MixDetail returns mix production/consumption series for the given
// granularity and date.
func (c *Client) MixDetail(mixID, plantID string, ts Timespan, date time.Time) (map[string]any, error) {
	ds, err := dateString(ts, date)
	if err != nil {
		return nil, err
	}

	return c.post(MIX_API, url.Values{
		"op":      {"getEnergyProdAndCons_KW"},
		"plantId": {plantID},
		"mixId":   {mixID},
		"type":    {ts.param()},
		"date":    {ds},
	}, "obj")
}

// DashboardData returns the energy storage statistics shown on the plant
// dashboard.
func (c *Client) DashboardData(plantID string, ts Timespan, date time.Time) (map[string]any, error) {
	ds, err := dateString(ts, date)
	if err != nil {
		return nil, err
	}

	return c.post(DASHBOARD_API, url.Values{
		"action":  {"getEnergyStorageData"},
		"date":    {ds},
		"type":    {ts.param()},
		"plantId": {plantID},
	}, "")
}

// StorageDetail returns storage device details.
func (c *Client) StorageDetail(storageID string) (map[string]any, error) {
	return c.get(STORAGE_API, url.Values{
		"op":        {"getStorageInfo_sacolar"},
		"storageId": {storageID},
	}, "")
}

// StorageParams returns storage device parameters.
func (c *Client) StorageParams(storageID string) (map[string]any, error) {
	return c.get(STORAGE_API, url.Values{
		"op":        {"getStorageParams_sacolar"},
		"storageId": {storageID},
	}, "")
}

// StorageEnergyOverview returns the storage energy overview. The op of this
// endpoint is part of the URL path, not a parameter.
func (c *Client) StorageEnergyOverview(plantID, storageID string) (map[string]any, error) {
	return c.post(STORAGE_ENERGY_API, url.Values{
		"plantId":   {plantID},
		"storageSn": {storageID},
	}, "obj")
}

// PlantInfo returns plant info including the device list.
func (c *Client) PlantInfo(plantID string) (map[string]any, error) {
	return c.get(DEVICE_LIST_API, url.Values{
		"op":       {"getAllDeviceList"},
		"plantId":  {plantID},
		"pageNum":  {"1"},
		"pageSize": {"1"},
	}, "")
}

// DeviceList returns the devices of a plant.
func (c *Client) DeviceList(plantID string) ([]any, error) {
	info, err := c.PlantInfo(plantID)
	if err != nil {
		return nil, err
	}

	list, ok := info["deviceList"].([]any)
	if !ok {
		return nil, &ShapeError{Field: "deviceList"}
	}

	return list, nil
}

// InverterList returns the devices of a plant.
//
// Deprecated: the name is misleading since the list contains all device
// types. Use DeviceList.
func (c *Client) InverterList(plantID string) ([]any, error) {
	c.log.WARN.Println("InverterList is deprecated, use DeviceList")
	return c.DeviceList(plantID)
}

// PlantSettings returns the plant settings.
func (c *Client) PlantSettings(plantID string) (map[string]any, error) {
	return c.get(PLANT_SETTINGS_API, url.Values{
		"op":      {"getPlant"},
		"plantId": {plantID},
	}, "")
}
