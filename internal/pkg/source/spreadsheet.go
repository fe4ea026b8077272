package source

import (
	"bytes"
	"context"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/domain/dto"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"github.com/xuri/excelize/v2"
	"io"
	"net/http"
	"os"
	"strings"
)

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if !isRemote(l.opts.SpreadsheetURL) {
		data, err := os.ReadFile(l.opts.SpreadsheetURL)
		if err != nil {
			return nil, fmt.Errorf("%w: os.ReadFile: %w", constants.ErrSourceUnavailable, err)
		}
		return data, nil
	}

	body, contentType, err := l.get(ctx, l.opts.SpreadsheetURL)
	if err != nil {
		return nil, err
	}

	// FHM sometimes moves the file behind a landing page; follow its workbook link once.
	if isHTML(contentType) {
		link, err := workbookLink(l.opts.SpreadsheetURL, body)
		if err != nil {
			return nil, err
		}

		logger.Infof(ctx, "spreadsheet url is a landing page, following %s", link)

		body, contentType, err = l.get(ctx, link)
		if err != nil {
			return nil, err
		}
		if isHTML(contentType) {
			return nil, fmt.Errorf("%w: workbook link %s returned html", constants.ErrSourceMalformed, link)
		}
	}

	return body, nil
}

// get downloads url, retrying per the loader options. Any failure is ErrSourceUnavailable.
func (l *Loader) get(ctx context.Context, url string) (body []byte, contentType string, err error) {
	attempt := 0
	err = backoff.Retry(
		func() (err error) {
			attempt++
			if attempt > 1 {
				logger.Warnf(ctx, "retrying fetch of %s, attempt %d", url, attempt)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
			}

			resp, err := l.client.Do(req)
			if err != nil {
				return fmt.Errorf("client.Do: %w", err)
			}
			defer func() {
				closeErr := resp.Body.Close()
				if closeErr != nil && err == nil {
					err = fmt.Errorf("failed to close body: %w", closeErr)
				}
			}()

			// Проверяем статус ответа, он должен быть 200 OK
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("io.ReadAll: %w", err)
			}
			contentType = resp.Header.Get("Content-Type")

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(l.opts.RetryInterval), l.opts.Retries),
			ctx,
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", constants.ErrSourceUnavailable, err)
	}

	return body, contentType, nil
}

// decodeWorkbook reads every sheet with raw cell values and checks that the required ones are present.
func decodeWorkbook(data []byte, metadataSheet string) (wb *dto.Workbook, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: excelize.OpenReader: %w", constants.ErrSourceMalformed, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	wb = dto.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, rowsErr := f.GetRows(name, excelize.Options{RawCellValue: true})
		if rowsErr != nil {
			return nil, fmt.Errorf("%w: GetRows, sheet-%s: %w", constants.ErrSourceMalformed, name, rowsErr)
		}

		if putErr := wb.PutTable(newTable(name, rows)); putErr != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrSourceMalformed, putErr)
		}
	}

	if missing := wb.Missing(domain.RequiredSheets); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing sheets %q", constants.ErrSourceMalformed, missing)
	}

	wb.Metadata, err = findMetadata(wb, metadataSheet)
	if err != nil {
		return nil, err
	}

	return wb, nil
}

func newTable(name string, rows [][]string) *domain.Table {
	table := &domain.Table{Name: name}
	if len(rows) == 0 {
		return table
	}

	table.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		table.Header[i] = strings.TrimSpace(h)
	}
	table.Rows = rows[1:]

	return table
}

// findMetadata returns the first cell of the first sheet whose name starts with prefix.
func findMetadata(wb *dto.Workbook, prefix string) (string, error) {
	for _, name := range wb.Order {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		table, _ := wb.GetTable(name)
		if len(table.Header) == 0 {
			return "", nil
		}
		return strings.TrimSpace(table.Header[0]), nil
	}

	return "", fmt.Errorf("%w: no sheet named %q*", constants.ErrSourceMalformed, prefix)
}
