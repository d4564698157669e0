package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	spanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Span",
		Fields: graphql.Fields{
			"latitude_delta":  &graphql.Field{Type: graphql.Float},
			"longitude_delta": &graphql.Field{Type: graphql.Float},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"center": &graphql.Field{Type: geoPointType},
			"span":   &graphql.Field{Type: spanType},
		},
	})

	sampleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PositionSample",
		Fields: graphql.Fields{
			"location": &graphql.Field{Type: geoPointType},
			"accuracy": &graphql.Field{Type: graphql.Float},
			"time":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	trackerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrackerState",
		Fields: graphql.Fields{
			"status":   &graphql.Field{Type: graphql.String},
			"message":  &graphql.Field{Type: graphql.String},
			"sample":   &graphql.Field{Type: sampleType},
			"viewport": &graphql.Field{Type: viewportType},
			"updates":  &graphql.Field{Type: graphql.Int},
		},
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: geoPointType},
			"source":     &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyPoint",
		Fields: graphql.Fields{
			"point":           &graphql.Field{Type: pointType},
			"distance_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	draftType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Draft",
		Fields: graphql.Fields{
			"coordinate": &graphql.Field{Type: geoPointType},
			"name":       &graphql.Field{Type: graphql.String},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: geoPointType},
			"title":      &graphql.Field{Type: graphql.String},
			"tint":       &graphql.Field{Type: graphql.String},
		},
	})

	circleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Circle",
		Fields: graphql.Fields{
			"center":       &graphql.Field{Type: geoPointType},
			"radius":       &graphql.Field{Type: graphql.Float},
			"stroke_width": &graphql.Field{Type: graphql.Float},
			"stroke_color": &graphql.Field{Type: graphql.String},
			"fill_color":   &graphql.Field{Type: graphql.String},
		},
	})

	headerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Header",
		Fields: graphql.Fields{
			"position": &graphql.Field{Type: graphql.String},
			"accuracy": &graphql.Field{Type: graphql.String},
		},
	})

	mapViewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapView",
		Fields: graphql.Fields{
			"status":   &graphql.Field{Type: graphql.String},
			"message":  &graphql.Field{Type: graphql.String},
			"header":   &graphql.Field{Type: headerType},
			"viewport": &graphql.Field{Type: viewportType},
			"position": &graphql.Field{Type: sampleType},
			"circle":   &graphql.Field{Type: circleType},
			"markers":  &graphql.Field{Type: graphql.NewList(markerType)},
			"points":   &graphql.Field{Type: graphql.NewList(pointType)},
			"draft":    &graphql.Field{Type: draftType},
			"visible":  &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"map": &graphql.Field{
				Type:        mapViewType,
				Description: "Current map frame",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Map.View(p.Context)
				},
			},
			"location": &graphql.Field{
				Type:        trackerType,
				Description: "Location tracker state",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Tracker.State(), nil
				},
			},
			"points": &graphql.Field{
				Type:        graphql.NewList(pointType),
				Description: "Points of interest in creation order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.List(p.Context)
				},
			},
			"pointsNearby": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Points of interest near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Points.Nearby(p.Context, center, p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
			"draft": &graphql.Field{
				Type:        draftType,
				Description: "Pending tap-to-place point, null when none is open",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.Draft(), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addPoint": &graphql.Field{
				Type:        pointType,
				Description: "Save a point from the coordinate entry form",
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.SubmitManual(p.Context, domain.ManualEntry{
						Name:      p.Args["name"].(string),
						Latitude:  p.Args["latitude"].(string),
						Longitude: p.Args["longitude"].(string),
					})
				},
			},
			"tap": &graphql.Field{
				Type:        draftType,
				Description: "Open the name prompt at a tapped coordinate",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Map.Tap(domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)})
				},
			},
			"setDraftName": &graphql.Field{
				Type: draftType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.SetDraftName(p.Args["name"].(string))
				},
			},
			"commitDraft": &graphql.Field{
				Type:        pointType,
				Description: "Save the pending point",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.CommitDraft(p.Context)
				},
			},
			"cancelDraft": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Discard the pending point",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					deps.Points.CancelDraft()
					return true, nil
				},
			},
			"startTracking": &graphql.Field{
				Type: trackerType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := deps.Tracker.Start(p.Context); err != nil {
						return nil, err
					}
					return deps.Tracker.State(), nil
				},
			},
			"stopTracking": &graphql.Field{
				Type: trackerType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					deps.Tracker.Stop()
					return deps.Tracker.State(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
