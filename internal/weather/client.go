package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Data mirrors the OpenWeather current-weather payload, trimmed to the
// fields the dashboard uses.
type Data struct {
	Name    string        `json:"name"`
	Main    Main          `json:"main"`
	Weather []Description `json:"weather"`
}

type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type Description struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Client fetches current weather for the nursery's city.
type Client struct {
	BaseURL string
	APIKey  string
	City    string
	Country string
	HTTP    *http.Client
}

// NewFromEnv builds a client from OPENWEATHER_* variables.
func NewFromEnv() *Client {
	base := os.Getenv("OPENWEATHER_BASE_URL")
	if base == "" {
		base = "https://api.openweathermap.org"
	}
	city := os.Getenv("OPENWEATHER_CITY")
	if city == "" {
		city = "Santiago"
	}
	country := os.Getenv("OPENWEATHER_COUNTRY")
	if country == "" {
		country = "CL"
	}
	return &Client{
		BaseURL: base,
		APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		City:    city,
		Country: country,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Current returns today's weather. Callers fall back to Placeholder()
// on error; the dashboard never fails because of the weather API.
func (c *Client) Current() (*Data, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=metric&lang=es",
		c.BaseURL, url.QueryEscape(c.City+","+c.Country), url.QueryEscape(c.APIKey))

	resp, err := c.HTTP.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var data Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Placeholder is the default block shown when the API is unreachable.
func Placeholder() *Data {
	return &Data{
		Name: "No disponible",
		Main: Main{},
		Weather: []Description{
			{Main: "N/A", Description: "No disponible"},
		},
	}
}
