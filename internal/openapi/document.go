// Package openapi builds the OpenAPI 3 document describing the CineVault API.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Document returns the OpenAPI description of the catalog-and-admin API.
// The surface is fixed, so the document is assembled statically.
func Document(baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "CineVault API",
			Description: "Catalog-and-admin API: downloadable movie entries, a visitor counter, and a single-administrator management surface.",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	doc.Components.Schemas["Message"] = &openapi3.SchemaRef{
		Value: objectSchema(openapi3.Schemas{
			"message": stringSchema(),
		}),
	}
	doc.Components.Schemas["Movie"] = &openapi3.SchemaRef{
		Value: objectSchema(openapi3.Schemas{
			"id":        stringSchema(),
			"title":     stringSchema(),
			"posterUrl": stringSchema(),
			"category":  stringSchema(),
			"downloadLinks": &openapi3.SchemaRef{
				Value: objectSchema(openapi3.Schemas{
					"720p":  stringSchema(),
					"1080p": stringSchema(),
					"1440p": stringSchema(),
				}),
			},
		}),
	}

	doc.Paths = openapi3.NewPaths()

	doc.Paths.Set("/api/admin/login", &openapi3.PathItem{
		Post: operation("admin", "Authenticate the administrator and obtain an access token", false),
	})
	doc.Paths.Set("/api/admin/change-credentials", &openapi3.PathItem{
		Post: operation("admin", "Rotate the administrator username and/or password", true),
	})
	doc.Paths.Set("/api/admin/init", &openapi3.PathItem{
		Post: operation("admin", "Ensure the default administrator identity exists", false),
	})
	doc.Paths.Set("/api/admin/status", &openapi3.PathItem{
		Get: operation("admin", "Report whether an administrator identity exists", false),
	})
	doc.Paths.Set("/api/admin/reset", &openapi3.PathItem{
		Post: operation("admin", "Delete all administrator identities (debug only)", false),
	})

	doc.Paths.Set("/api/movies", &openapi3.PathItem{
		Get:  operation("movies", "List all movies, newest first", false),
		Post: operation("movies", "Add a movie to the catalog", true),
	})
	doc.Paths.Set("/api/movies/{movieID}", &openapi3.PathItem{
		Get:    operation("movies", "Fetch a single movie", false),
		Put:    operation("movies", "Replace a movie", true),
		Delete: operation("movies", "Delete a movie", true),
	})

	doc.Paths.Set("/api/visitors/track", &openapi3.PathItem{
		Post: operation("visitors", "Increment the visitor counter", false),
	})
	doc.Paths.Set("/api/visitors/count", &openapi3.PathItem{
		Get: operation("visitors", "Read the visitor counter", false),
	})

	return doc
}

func operation(tag, summary string, authenticated bool) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Tags = []string{tag}
	op.Summary = summary
	op.Responses = openapi3.NewResponses()
	op.Responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Success"),
	})
	if authenticated {
		op.Security = &openapi3.SecurityRequirements{
			{"bearerAuth": {}},
		}
		op.Responses.Set("401", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Missing or invalid bearer token").
				WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Message", nil)),
		})
	}
	return op
}

func objectSchema(props openapi3.Schemas) *openapi3.Schema {
	return &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: props,
	}
}

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}
