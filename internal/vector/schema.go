package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// SchemaClient defines the interface for Weaviate schema operations
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// ClassJobPosting is the single class holding canonical job records.
const ClassJobPosting = "JobPosting"

// EnsureSchema checks if the JobPosting class exists and creates or extends
// it as needed. The vectorizer is "none": vectors are computed by the
// embedding service, not by Weaviate.
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	exists, err := client.ClassExists(ctx, ClassJobPosting)
	if err != nil {
		return err
	}

	properties := []*models.Property{
		{
			Name:     "sourceId",
			DataType: []string{"string"}, // upstream identifier (exact match)
		},
		{
			Name:     "status",
			DataType: []string{"string"},
		},
		{
			Name:     "name",
			DataType: []string{"text"},
		},
		{
			Name:     "description",
			DataType: []string{"text"},
		},
		{
			Name:     "workplace",
			DataType: []string{"string"},
		},
		{
			// Filtered as a fixed tag vocabulary; field tokenization keeps
			// multi-token tags like "part-time" intact in where filters.
			Name:         "jobTypes",
			DataType:     []string{"text[]"},
			Tokenization: models.PropertyTokenizationField,
		},
		{
			Name:     "locations",
			DataType: []string{"text[]"},
		},
		{
			Name:     "geoLocations",
			DataType: []string{"text[]"},
		},
		{
			Name:     "geoLats",
			DataType: []string{"number[]"},
		},
		{
			Name:     "geoLons",
			DataType: []string{"number[]"},
		},
		{
			Name:     "salaryMin",
			DataType: []string{"string"}, // formatted display value
		},
		{
			Name:     "salaryMax",
			DataType: []string{"string"},
		},
		{
			Name:     "salaryCurrency",
			DataType: []string{"string"},
		},
		{
			Name:     "salaryMinUSD",
			DataType: []string{"number"},
		},
		{
			Name:     "salaryMaxUSD",
			DataType: []string{"number"},
		},
		{
			Name:     "salaryNormalized",
			DataType: []string{"boolean"},
		},
		{
			Name:     "noticeKnown",
			DataType: []string{"boolean"},
		},
		{
			Name:     "noticeMinWeeks",
			DataType: []string{"number"},
		},
		{
			Name:     "noticeMaxWeeks",
			DataType: []string{"number"},
		},
		{
			Name:     "noticeOpenEnded",
			DataType: []string{"boolean"},
		},
		{
			Name:     "updatedAt",
			DataType: []string{"date"},
		},
	}

	if !exists {
		class := &models.Class{
			Class:       ClassJobPosting,
			Description: "A canonical job posting",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	// Class exists, check for missing properties
	class, err := client.GetClass(ctx, ClassJobPosting)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, ClassJobPosting, p); err != nil {
				return err
			}
		}
	}

	return nil
}
