// Package enrollment pulls newly admitted students from the registrar and
// enrolls them into the hall, optionally followed by an allocation batch.
package enrollment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"hall-management-backend/config"
	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/parse"
)

// Registrar is the part of the hall service the sync needs.
type Registrar interface {
	AddStudent(ctx context.Context, st hall.Student) error
	RunAllocation(ctx context.Context) (hall.AllocationReport, error)
}

// Result summarises one sync cycle.
type Result struct {
	Fetched    int
	Added      int
	Duplicates int
	Invalid    int
	Allocation *hall.AllocationReport
}

// Service orchestrates the enrollment sync.
type Service struct {
	cfg       *config.EnrollmentConfig
	registrar Registrar
	client    *http.Client
}

// NewService creates and initializes a new enrollment sync service.
func NewService(cfg *config.EnrollmentConfig, registrar Registrar) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logrus.WithError(err).Warnf("Invalid proxy URL %q. Enrollment sync will not use a proxy.", cfg.HTTPProxy)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Service{
		cfg:       cfg,
		registrar: registrar,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// Run syncs once immediately and then on every interval until ctx ends.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		logrus.Info("Enrollment sync is disabled. Not starting.")
		return
	}
	logrus.Info("Starting enrollment sync service...")

	s.syncAndLog(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Enrollment sync service shutting down.")
			return
		case <-timer.C:
			s.syncAndLog(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) syncAndLog(ctx context.Context) {
	res, err := s.SyncOnce(ctx)
	if err != nil {
		logrus.WithError(err).Error("Enrollment sync cycle failed")
		return
	}
	fields := logrus.Fields{
		"fetched":    res.Fetched,
		"added":      res.Added,
		"duplicates": res.Duplicates,
		"invalid":    res.Invalid,
	}
	if res.Allocation != nil {
		fields["placed"] = len(res.Allocation.Placements)
		fields["unplaced"] = len(res.Allocation.Unplaced)
	}
	logrus.WithFields(fields).Info("Enrollment sync cycle finished")
}

// SyncOnce fetches every page from the registrar and enrolls students the
// hall does not know yet. Records failing validation are skipped. A fetch
// error with nothing retrieved aborts the cycle; a partial fetch is still
// applied.
func (s *Service) SyncOnce(ctx context.Context) (Result, error) {
	var res Result

	var records []Record
	total := 1
	pageSize := s.cfg.Request.PageSize
	var fetchErr error
	for page := 1; (page-1)*pageSize < total; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			logrus.WithError(err).Errorf("Error fetching page %d", page)
			fetchErr = err
			break
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		records = append(records, resp.Data.Items...)
		logrus.Debugf("Fetched page %d, records so far: %d/%d", page, len(records), total)
	}
	res.Fetched = len(records)

	if fetchErr != nil && len(records) == 0 {
		return res, fmt.Errorf("no records retrieved: %w", fetchErr)
	}

	for _, rec := range records {
		st, err := parse.Student(hall.Student{
			ID:         rec.ID,
			Name:       rec.Name,
			Contact:    rec.Contact,
			Distance:   rec.Distance,
			Merit:      rec.Merit,
			Income:     rec.Income,
			Department: rec.Department,
		})
		if err != nil {
			logrus.WithError(err).Warn("Skipping invalid enrollment record")
			res.Invalid++
			continue
		}
		err = s.registrar.AddStudent(ctx, st)
		switch {
		case errors.Is(err, hall.ErrDuplicateStudent):
			res.Duplicates++
		case err != nil:
			// The student is kept in memory even when the save failed.
			if !errors.Is(err, hall.ErrPersistence) {
				return res, fmt.Errorf("failed to enroll %s: %w", st.ID, err)
			}
			logrus.WithError(err).Errorf("Enrolled %s but could not save", st.ID)
			res.Added++
		default:
			res.Added++
		}
	}

	if s.cfg.AllocateAfterSync && res.Added > 0 {
		report, err := s.registrar.RunAllocation(ctx)
		res.Allocation = &report
		if err != nil {
			return res, fmt.Errorf("allocation after sync failed: %w", err)
		}
	}
	return res, nil
}

// fetchPage fetches a single page of enrollment records.
func (s *Service) fetchPage(ctx context.Context, page int) (*ApiResponse, error) {
	payload := make(map[string]any)
	for k, v := range s.cfg.Request.Payload {
		payload[k] = v
	}
	payload["page"] = page
	payload["pageSize"] = s.cfg.Request.PageSize

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Request.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.cfg.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal api response: %w", err)
	}

	if apiResp.Code != 0 {
		return nil, fmt.Errorf("registrar returned non-zero application code: %d", apiResp.Code)
	}

	return &apiResp, nil
}
