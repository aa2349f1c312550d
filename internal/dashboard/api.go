package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/matsen/cordex/internal/aggregate"
)

// ViewInput selects the records for the view endpoint.
type ViewInput struct {
	FilterInput
}

// ViewOutput is every table for one filter selection.
type ViewOutput struct {
	Body struct {
		Filter  aggregate.Filter    `json:"filter" doc:"Effective filter after clamping"`
		Query   string              `json:"q,omitempty"`
		MinYear int                 `json:"min_year"`
		MaxYear int                 `json:"max_year"`
		Years   aggregate.Histogram `json:"year_table"`
		View    aggregate.View      `json:"view"`
	}
}

// OptionsOutput describes the filter controls.
type OptionsOutput struct {
	Body struct {
		Source   string   `json:"source"`
		Path     string   `json:"path"`
		Records  int      `json:"records"`
		MinYear  int      `json:"min_year"`
		MaxYear  int      `json:"max_year"`
		Journals []string `json:"journals" doc:"Journal selector options, All first"`
	}
}

// RecordsInput selects records and limits the rows returned.
type RecordsInput struct {
	FilterInput
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"1000" doc:"Maximum number of rows"`
}

// RecordsOutput is the data sample for a filter selection.
type RecordsOutput struct {
	Body struct {
		Total   int         `json:"total"`
		Records []RecordRow `json:"records"`
	}
}

func (s *Server) registerAPI(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "GetView",
		Method:      http.MethodGet,
		Path:        "/api/v1/view",
		Summary:     "Get filtered view",
		Description: "Year, journal and title word tables for the selected records",
		Tags:        []string{"View"},
	}, func(ctx context.Context, input *ViewInput) (*ViewOutput, error) {
		sel, err := s.selectRecords(input.FilterInput)
		if err != nil {
			return nil, apiError(err)
		}
		resp := &ViewOutput{}
		resp.Body.Filter = sel.Filter
		resp.Body.Query = sel.Query
		resp.Body.MinYear = s.minYear
		resp.Body.MaxYear = s.maxYear
		resp.Body.Years = aggregate.YearTable(sel.Records)
		resp.Body.View = sel.View
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "GetOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/options",
		Summary:     "Get filter options",
		Description: "Year slider bounds and journal selector options",
		Tags:        []string{"View"},
	}, func(ctx context.Context, input *struct{}) (*OptionsOutput, error) {
		resp := &OptionsOutput{}
		resp.Body.Source = s.ds.Kind.String()
		resp.Body.Path = s.ds.Path
		resp.Body.Records = len(s.records)
		resp.Body.MinYear = s.minYear
		resp.Body.MaxYear = s.maxYear
		resp.Body.Journals = s.journals
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ListRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List records",
		Description: "First rows of the selected records with the display columns",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *RecordsInput) (*RecordsOutput, error) {
		sel, err := s.selectRecords(input.FilterInput)
		if err != nil {
			return nil, apiError(err)
		}
		resp := &RecordsOutput{}
		resp.Body.Total = len(sel.Records)
		resp.Body.Records = recordRows(sel.Records, input.Limit)
		return resp, nil
	})
}

func apiError(err error) error {
	var bad *errBadQuery
	if errors.As(err, &bad) {
		return huma.Error400BadRequest(bad.Error(), bad.err)
	}
	return huma.Error500InternalServerError("failed to compute view", err)
}
