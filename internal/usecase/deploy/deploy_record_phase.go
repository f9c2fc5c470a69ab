// Where: internal/usecase/deploy/deploy_record_phase.go
// What: Root key record phase.
// Why: The new table gets exactly one key, holding the key management capabilities.
package deploy

import (
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/domain/capability"
)

func (w Workflow) writeRecord(ctx context.Context, state *runState) error {
	d := state.deployment
	record, err := capability.NewRootRecord(w.random(), state.req.Settings, state.req.Capabilities)
	if err != nil {
		return fmt.Errorf("create root key: %w", err)
	}
	item, err := record.Item()
	if err != nil {
		return fmt.Errorf("encode root key record: %w", err)
	}
	res, err := w.Clients.DynamoDB.PutItem(ctx, d.TableName, item)
	if err != nil {
		return fmt.Errorf("write root key record to %s: %w", d.TableName, err)
	}
	state.result.Record = record
	state.result.ConsumedCapacity = res.ConsumedCapacity
	if w.UserInterface != nil {
		w.UserInterface.Success(fmt.Sprintf("Loaded root key into %s", d.TableName))
	}
	w.logger().Info("root key written", "table", d.TableName, "consumed_capacity", res.ConsumedCapacity)
	return nil
}
