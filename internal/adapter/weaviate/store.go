// Package weaviate adapts the vector index to the ingestion and search
// interfaces. Postings live in a single class with precomputed vectors;
// structured predicates are translated into native where filters.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/features/search"
	syncfeature "talentmatch/apps/backend/features/sync"
	"talentmatch/apps/backend/internal/filter"
	"talentmatch/apps/backend/internal/vector"
)

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// EnsureSchema creates or extends the posting class.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return vector.EnsureSchema(ctx, vector.NewWeaviateClientAdapter(s.client))
}

// FetchExisting returns the stored description and vector for id, or nil
// when the index holds no record under it.
func (s *Store) FetchExisting(ctx context.Context, id string) (*syncfeature.ExistingRecord, error) {
	objs, err := s.client.Data().ObjectsGetter().
		WithClassName(vector.ClassJobPosting).
		WithID(id).
		WithVector().
		Do(ctx)
	if err != nil {
		var clientErr *fault.WeaviateClientError
		if errors.As(err, &clientErr) && clientErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}

	rec := &syncfeature.ExistingRecord{Vector: objs[0].Vector}
	if props, ok := objs[0].Properties.(map[string]interface{}); ok {
		if desc, ok := props["description"].(string); ok {
			rec.Description = desc
		}
	}
	return rec, nil
}

// Upsert writes the posting under its deterministic id. Batch inserts
// replace existing objects with the same id, so re-syncs overwrite in place.
func (s *Store) Upsert(ctx context.Context, p *job.Posting, vec []float32) error {
	obj := &models.Object{
		Class:      vector.ClassJobPosting,
		ID:         strfmt.UUID(p.ID),
		Vector:     vec,
		Properties: postingProperties(p),
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(obj).Do(ctx)
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Result != nil && r.Result.Errors != nil && len(r.Result.Errors.Error) > 0 {
			return fmt.Errorf("index write %s: %s", p.ID, r.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Search runs filtered nearest-neighbor search and returns matches ordered
// by similarity. Score is 1 - cosine distance.
func (s *Store) Search(ctx context.Context, vec []float32, where *filter.Clause, limit int) ([]search.Match, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vec)

	fields := []graphql.Field{
		{Name: "sourceId"},
		{Name: "name"},
		{Name: "description"},
		{Name: "workplace"},
		{Name: "status"},
		{Name: "jobTypes"},
		{Name: "locations"},
		{Name: "geoLocations"},
		{Name: "geoLats"},
		{Name: "geoLons"},
		{Name: "salaryMin"},
		{Name: "salaryMax"},
		{Name: "salaryCurrency"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "id"}, {Name: "distance"}}},
	}

	query := s.client.GraphQL().Get().
		WithClassName(vector.ClassJobPosting).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...)
	if where != nil {
		query = query.WithWhere(BuildWhere(where))
	}

	res, err := query.Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var matches []search.Match
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if hits, ok := data[vector.ClassJobPosting].([]interface{}); ok {
			for _, h := range hits {
				props, ok := h.(map[string]interface{})
				if !ok {
					continue
				}
				matches = append(matches, matchFromProps(props))
			}
		}
	}
	return matches, nil
}

// CountPostings returns the total number of indexed records.
func (s *Store) CountPostings(ctx context.Context) (int, error) {
	res, err := s.client.GraphQL().Aggregate().
		WithClassName(vector.ClassJobPosting).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %v", res.Errors)
	}

	if agg, ok := res.Data["Aggregate"].(map[string]interface{}); ok {
		if rows, ok := agg[vector.ClassJobPosting].([]interface{}); ok && len(rows) > 0 {
			if row, ok := rows[0].(map[string]interface{}); ok {
				if meta, ok := row["meta"].(map[string]interface{}); ok {
					if count, ok := meta["count"].(float64); ok {
						return int(count), nil
					}
				}
			}
		}
	}
	return 0, nil
}

// BuildWhere translates a predicate tree into the client's filter builder.
func BuildWhere(c *filter.Clause) *filters.WhereBuilder {
	w := filters.Where()

	switch c.Operator {
	case filter.OpAnd, filter.OpOr:
		op := filters.And
		if c.Operator == filter.OpOr {
			op = filters.Or
		}
		operands := make([]*filters.WhereBuilder, 0, len(c.Operands))
		for _, child := range c.Operands {
			operands = append(operands, BuildWhere(child))
		}
		return w.WithOperator(op).WithOperands(operands)
	case filter.OpEqual:
		w = w.WithPath(c.Path).WithOperator(filters.Equal)
	case filter.OpContainsAny:
		w = w.WithPath(c.Path).WithOperator(filters.ContainsAny)
	case filter.OpLTE:
		w = w.WithPath(c.Path).WithOperator(filters.LessThanEqual)
	case filter.OpGTE:
		w = w.WithPath(c.Path).WithOperator(filters.GreaterThanEqual)
	}

	switch v := c.Value.(type) {
	case string:
		w = w.WithValueText(v)
	case bool:
		w = w.WithValueBoolean(v)
	case float64:
		w = w.WithValueNumber(v)
	case []string:
		w = w.WithValueText(v...)
	}
	return w
}

func postingProperties(p *job.Posting) map[string]interface{} {
	geoLocations := make([]string, 0, len(p.GeoPoints))
	geoLats := make([]float64, 0, len(p.GeoPoints))
	geoLons := make([]float64, 0, len(p.GeoPoints))
	for _, gp := range p.GeoPoints {
		geoLocations = append(geoLocations, gp.Location)
		geoLats = append(geoLats, gp.Lat)
		geoLons = append(geoLons, gp.Lon)
	}

	props := map[string]interface{}{
		"sourceId":         p.SourceID,
		"status":           p.Status,
		"name":             p.Name,
		"description":      p.Description,
		"workplace":        p.Workplace,
		"jobTypes":         p.JobTypes,
		"locations":        p.Locations,
		"geoLocations":     geoLocations,
		"geoLats":          geoLats,
		"geoLons":          geoLons,
		"salaryMin":        p.Salary.Min,
		"salaryMax":        p.Salary.Max,
		"salaryCurrency":   p.Salary.Currency,
		"salaryMinUSD":     p.Salary.MinUSD,
		"salaryMaxUSD":     p.Salary.MaxUSD,
		"salaryNormalized": p.Salary.Normalized,
		"noticeKnown":      p.NoticePeriod != nil,
		"noticeOpenEnded":  p.NoticePeriod != nil && p.NoticePeriod.MaxWeeks == nil,
		"updatedAt":        p.UpdatedAt.Format(time.RFC3339),
	}

	if p.NoticePeriod != nil {
		props["noticeMinWeeks"] = p.NoticePeriod.MinWeeks
		if p.NoticePeriod.MaxWeeks != nil {
			props["noticeMaxWeeks"] = *p.NoticePeriod.MaxWeeks
		}
	}
	return props
}

func matchFromProps(props map[string]interface{}) search.Match {
	m := search.Match{}

	if additional, ok := props["_additional"].(map[string]interface{}); ok {
		if id, ok := additional["id"].(string); ok {
			m.ID = id
		}
		if dist, ok := additional["distance"].(float64); ok {
			m.Score = 1 - dist
		} else if dist, ok := additional["distance"].(string); ok {
			if f, err := strconv.ParseFloat(dist, 64); err == nil {
				m.Score = 1 - f
			}
		}
	}

	m.Job = job.Posting{
		ID:          m.ID,
		SourceID:    stringProp(props, "sourceId"),
		Status:      stringProp(props, "status"),
		Name:        stringProp(props, "name"),
		Description: stringProp(props, "description"),
		Workplace:   stringProp(props, "workplace"),
		JobTypes:    stringsProp(props, "jobTypes"),
		Locations:   stringsProp(props, "locations"),
	}

	locs := stringsProp(props, "geoLocations")
	lats := numbersProp(props, "geoLats")
	lons := numbersProp(props, "geoLons")
	for i := range locs {
		if i >= len(lats) || i >= len(lons) {
			break
		}
		m.Job.GeoPoints = append(m.Job.GeoPoints, job.GeoPoint{Location: locs[i], Lat: lats[i], Lon: lons[i]})
	}
	return m
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func stringsProp(props map[string]interface{}, key string) []string {
	raw, ok := props[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numbersProp(props map[string]interface{}, key string) []float64 {
	raw, ok := props[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}
