// Package headhunter is a minimal HH.ru API client used to fetch
// vacancy postings for the normalization pipeline.
package headhunter

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "CDEK HR Analytics/1.0"
	// Max value for search per page.
	perPage = "100"
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger) *Client {
	return &Client{
		ctx:    ctx,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (c *Client) Search(params *SearchParams) (*Vacancies, error) {
	return c.search(params)
}

// GetVacancy fetches the full vacancy details (description, salary,
// schedule) which the search listing omits.
func (c *Client) GetVacancy(id string) (*Vacancy, error) {
	var vacancy Vacancy
	if err := c.getJSON(c.APIURL+SearchPath+"/"+id, nil, &vacancy); err != nil {
		return nil, err
	}
	return &vacancy, nil
}
