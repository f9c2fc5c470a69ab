// Where: internal/provisioner/dynamodb.go
// What: DynamoDB provisioning helpers.
// Why: A deployment must never adopt a table that already holds keys.
package provisioner

import (
	"context"
	"fmt"
)

// TableExists reports whether the table name is listed in the account and region.
func TableExists(ctx context.Context, client DynamoDBAPI, name string) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("dynamodb client is nil")
	}
	tables, err := client.ListTables(ctx)
	if err != nil {
		return false, err
	}
	for _, table := range tables {
		if table == name {
			return true, nil
		}
	}
	return false, nil
}
