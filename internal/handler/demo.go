package handler

import (
	"errors"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// City is one row of the demo data set.
type City struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Population int    `json:"population"`
}

// Cities and Quotes are static demo data.
var (
	Cities = []City{
		{"New York", "USA", 8336817},
		{"London", "UK", 8982000},
		{"Tokyo", "Japan", 13929286},
		{"Paris", "France", 2161000},
		{"Sydney", "Australia", 5312163},
	}
	Quotes = []string{
		"The only way to do great work is to love what you do. - Steve Jobs",
		"Innovation distinguishes between a leader and a follower. - Steve Jobs",
		"Life is what happens to you while you're busy making other plans. - John Lennon",
		"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
		"It is during our darkest moments that we must focus to see the light. - Aristotle",
	}
	weatherConditions = []string{"sunny", "cloudy", "rainy", "snowy", "foggy", "windy"}

	demoEndpoints = []string{
		"/", "/health", "/time", "/random", "/quote",
		"/weather/<city>", "/cities", "/math/<operation>/<a>/<b>", "/stats",
	}
)

const (
	demoService  = "simple-demo-api"
	demoVersion  = "1.0.0"
	maxRandCount = 100
	maxRandAbs   = 1_000_000_000
)

// DemoHandler serves the demo API. Now is swappable for tests.
type DemoHandler struct {
	Now func() time.Time
}

func NewDemoHandler() *DemoHandler {
	return &DemoHandler{Now: func() time.Time { return time.Now().UTC() }}
}

func (h *DemoHandler) stamp() string { return h.Now().Format(time.RFC3339Nano) }

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// Index describes the API.
func (h *DemoHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Simple Demo API",
		"version":     demoVersion,
		"description": "A simple Cloud Run demo without external dependencies",
		"endpoints": map[string]string{
			"/health":                   "Health check",
			"/time":                     "Current server time",
			"/random":                   "Random number generator",
			"/quote":                    "Random inspirational quote",
			"/weather/<city>":           "Fake weather for a city",
			"/cities":                   "List of demo cities",
			"/math/<operation>/<a>/<b>": "Basic math operations",
		},
		"examples": []string{"/time", "/random", "/quote", "/weather/London", "/cities", "/math/add/5/3"},
	})
}

func (h *DemoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": h.stamp(),
		"service":   demoService,
		"uptime":    "running",
	})
}

func (h *DemoHandler) Time(c echo.Context) error {
	now := h.Now()
	return c.JSON(http.StatusOK, echo.Map{
		"current_time": now.Format(time.RFC3339Nano),
		"timestamp":    float64(now.UnixNano()) / 1e9,
		"timezone":     "UTC",
		"formatted":    now.Format("2006-01-02 15:04:05"),
	})
}

// Random returns count integers drawn uniformly from [min, max].
func (h *DemoHandler) Random(c echo.Context) error {
	lo, err1 := queryInt(c, "min", 1)
	hi, err2 := queryInt(c, "max", 100)
	count, err3 := queryInt(c, "count", 1)
	if err := errors.Join(err1, err2, err3); err != nil {
		return badRequest(c, "min, max and count must be integers")
	}
	if lo < -maxRandAbs || hi > maxRandAbs {
		return badRequest(c, "min and max must be between -1000000000 and 1000000000")
	}
	if lo >= hi {
		return badRequest(c, "min must be less than max")
	}
	if count > maxRandCount {
		return badRequest(c, "count cannot exceed 100")
	}
	if count < 1 {
		return badRequest(c, "count must be at least 1")
	}

	// bounds keep hi-lo+1 and the sum of 100 draws well inside int64
	numbers := make([]int64, count)
	var sum int64
	for i := range numbers {
		numbers[i] = int64(lo) + rand.Int64N(int64(hi)-int64(lo)+1)
		sum += numbers[i]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"numbers": numbers,
		"count":   count,
		"min":     lo,
		"max":     hi,
		"sum":     sum,
		"average": math.Round(float64(sum)/float64(count)*100) / 100,
	})
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (h *DemoHandler) Quote(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"quote":     Quotes[rand.IntN(len(Quotes))],
		"timestamp": h.stamp(),
	})
}

// Weather is fake but stable: the same city (case-insensitive) always gets
// the same reading.
type Weather struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	Pressure    int    `json:"pressure"`
	Condition   string `json:"condition"`
	Note        string `json:"note"`
}

func FakeWeather(city string) Weather {
	f := fnv.New64a()
	_, _ = f.Write([]byte(strings.ToLower(city)))
	r := rand.New(rand.NewPCG(f.Sum64()%1000, 0))
	return Weather{
		City:        city,
		Temperature: -10 + r.IntN(46),
		Humidity:    30 + r.IntN(61),
		Pressure:    980 + r.IntN(51),
		Condition:   weatherConditions[r.IntN(len(weatherConditions))],
		Note:        "This is demo data - not real weather!",
	}
}

func (h *DemoHandler) Weather(c echo.Context) error {
	return c.JSON(http.StatusOK, FakeWeather(c.Param("city")))
}

func (h *DemoHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"cities": Cities,
		"total":  len(Cities),
		"note":   "This is demo data",
	})
}

// Calculate applies op to a and b. sqrt ignores b.
func Calculate(op string, a, b float64) (float64, error) {
	switch op {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return 0, errors.New("Division by zero")
		}
		return a / b, nil
	case "power":
		return math.Pow(a, b), nil
	case "sqrt":
		if a < 0 {
			return 0, errors.New("Cannot calculate square root of negative number")
		}
		return math.Sqrt(a), nil
	}
	return 0, errors.New("Invalid operation. Use: add, subtract, multiply, divide, power, sqrt")
}

func (h *DemoHandler) Math(c echo.Context) error {
	op := c.Param("op")
	a, errA := strconv.ParseFloat(c.Param("a"), 64)
	b, errB := strconv.ParseFloat(c.Param("b"), 64)
	if errA != nil || errB != nil {
		return badRequest(c, "a and b must be numbers")
	}
	result, err := Calculate(op, a, b)
	if err != nil {
		return badRequest(c, err.Error())
	}
	// JSON cannot carry Inf or NaN, e.g. power(10, 400).
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return badRequest(c, "result is not a finite number")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"operation": op,
		"a":         a,
		"b":         b,
		"result":    result,
		"timestamp": h.stamp(),
	})
}

func (h *DemoHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"total_cities":  len(Cities),
		"total_quotes":  len(Quotes),
		"random_number": 1 + rand.IntN(1000),
		"pi":            math.Pi,
		"e":             math.E,
		"timestamp":     h.stamp(),
	})
}

// DemoErrorHandler renders errors as JSON: unknown routes list the
// available endpoints, server errors hide their cause.
func DemoErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	var body echo.Map
	switch {
	case code == http.StatusNotFound:
		body = echo.Map{"error": "Endpoint not found", "available_endpoints": demoEndpoints}
	case code >= http.StatusInternalServerError:
		c.Logger().Errorf("demo api: %v", err)
		body = echo.Map{"error": "Internal server error"}
	default:
		body = echo.Map{"error": http.StatusText(code)}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
