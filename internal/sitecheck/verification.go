package sitecheck

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/nestudio/internal/domain/filter"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/logger"
)

// verifyCase fetches the filtered list for c and checks it against the
// full catalogue: every result must satisfy the predicate, results keep
// catalogue order, and nothing that matches is missing.
func verifyCase(ctx context.Context, client *HTTPClient, full []model.ProjectRecord, c Case) error {
	path := "/api/projects"
	if v := c.State().Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var got projectsResponse
	if err := client.GetJSON(ctx, path, &got); err != nil {
		return err
	}
	if got.Count != len(got.Projects) {
		return fmt.Errorf("%w: %s: count %d but %d projects", ErrMismatch, path, got.Count, len(got.Projects))
	}

	ids := make([]string, len(got.Projects))
	for i := range got.Projects {
		p := &got.Projects[i].Project
		ids[i] = p.ID
		if !filter.Matches(p, got.Query, got.Tags) {
			return fmt.Errorf("%w: %s: %s does not satisfy the filter", ErrMismatch, path, p.ID)
		}
	}
	if !isSubsequence(ids, recordIDs(full)) {
		return fmt.Errorf("%w: %s: %v is not in catalogue order", ErrMismatch, path, ids)
	}

	want := recordIDs(filter.Apply(full, got.Query, got.Tags))
	if diff := cmp.Diff(want, ids); diff != "" {
		return fmt.Errorf("%w: %s (-want +got):\n%s", ErrMismatch, path, diff)
	}
	return nil
}

// verifyLabels requests each label twice and requires identical bodies.
func verifyLabels(ctx context.Context, client *HTTPClient, full []model.ProjectRecord) (int, error) {
	var paths []string
	for i := range full {
		r := &full[i]
		paths = append(paths,
			"/label/barcode.svg?"+url.Values{"value": {r.ID + "-" + r.DisplayYear()}, "height": {"36"}}.Encode(),
			"/label/pattern.svg?"+url.Values{"seed": {r.Link}, "size": {"80"}}.Encode(),
		)
	}
	for _, p := range paths {
		a, err := client.Get(ctx, p)
		if err != nil {
			return 0, err
		}
		b, err := client.Get(ctx, p)
		if err != nil {
			return 0, err
		}
		if string(a) != string(b) {
			return 0, fmt.Errorf("%w: %s", ErrNondeterministic, p)
		}
		logger.Get().Debug(ctx, "label stable", logger.String("path", p), logger.Int("bytes", len(a)))
	}
	return len(paths), nil
}

// isSubsequence reports whether sub appears in seq in the same order.
func isSubsequence(sub, seq []string) bool {
	i := 0
	for _, s := range seq {
		if i < len(sub) && sub[i] == s {
			i++
		}
	}
	return i == len(sub)
}

func recordIDs(records []model.ProjectRecord) []string {
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	return ids
}
