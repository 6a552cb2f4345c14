// Package graphqlapi exposes the cluster inventory as a read-only GraphQL
// endpoint. Mutations stay on the REST side, the graph exists so dashboard
// clients can fetch a cluster together with its relations in one round trip.
package graphqlapi

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

const defaultListLimit = 10

type SchemaConfig struct {
	ClusterSvc   clustersvc.Service   `validate:"required"`
	CloudAcctSvc cloudacctsvc.Service `validate:"required"`
}

// NewSchema builds the executable schema. The cloudAccount field resolver
// returns ErrAbsentRelation when the cluster has no linked cloud account,
// the handler masks those entries out of the final response.
func NewSchema(conf SchemaConfig) (graphql.Schema, error) {
	err := validator.Validate(conf)
	if err != nil {
		return graphql.Schema{}, err
	}

	partitionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Partition",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"nodeCount": &graphql.Field{Type: graphql.Int},
			"config": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					partition, ok := p.Source.(clustersvc.Partition)
					if !ok {
						return nil, fmt.Errorf("unexpected source type %T", p.Source)
					}

					return string(partition.Config), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	cloudAccountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CloudAccount",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"cloudAccountId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"apiKey":         &graphql.Field{Type: graphql.String},
			"createdAt":      &graphql.Field{Type: graphql.DateTime},
		},
	})

	clusterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Cluster",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"clientId":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"ownerEmail":  &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"provider":    &graphql.Field{Type: graphql.String},
			"creationParameters": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cluster, ok := p.Source.(clustersvc.Cluster)
					if !ok {
						return nil, fmt.Errorf("unexpected source type %T", p.Source)
					}

					return string(cluster.CreationParameters), nil
				},
			},
			"partitions": &graphql.Field{Type: graphql.NewList(partitionType)},
			"cloudAccount": &graphql.Field{
				Type: cloudAccountType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cluster, ok := p.Source.(clustersvc.Cluster)
					if !ok {
						return nil, fmt.Errorf("unexpected source type %T", p.Source)
					}

					if cluster.CloudAccountID == "" {
						return nil, fmt.Errorf("%w: cluster %q has no cloud account", ErrAbsentRelation, cluster.Name)
					}

					outKey, err := conf.CloudAcctSvc.GetKey(p.Context, cloudacctsvc.InputGetKey{
						CloudAccountID: cluster.CloudAccountID,
					})
					if err != nil {
						return nil, err
					}

					return outKey.APIKey, nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"cluster": &graphql.Field{
				Type: clusterType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)

					outCluster, err := conf.ClusterSvc.GetCluster(p.Context, clustersvc.InputGetCluster{
						Name: name,
					})
					if err != nil {
						return nil, err
					}

					return outCluster.Cluster, nil
				},
			},
			"clusters": &graphql.Field{
				Type: graphql.NewList(clusterType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: defaultListLimit,
					},
					"offset": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					offset, _ := p.Args["offset"].(int)

					outList, err := conf.ClusterSvc.ListClusters(p.Context, clustersvc.InputListClusters{
						Limit:  int64(limit),
						Offset: int64(offset),
					})
					if err != nil {
						return nil, err
					}

					return outList.Clusters, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
