// Where: internal/domain/attr/dynamodb.go
// What: Conversion between typed attributes and aws-sdk-go-v2 DynamoDB attribute values.
// Why: PutItem and GetItem speak SDK types while records are built with the codec.
package attr

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ToDynamoDB converts the attribute into the SDK member type matching its tag.
func (a Attribute) ToDynamoDB() (types.AttributeValue, error) {
	switch a.Tag {
	case TagS:
		return &types.AttributeValueMemberS{Value: a.S}, nil
	case TagBOOL:
		return &types.AttributeValueMemberBOOL{Value: a.BOOL}, nil
	case TagN:
		return &types.AttributeValueMemberN{Value: a.N}, nil
	case TagM:
		fields, err := ItemToDynamoDB(a.M)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: fields}, nil
	case TagL:
		items := make([]types.AttributeValue, 0, len(a.L))
		for _, item := range a.L {
			converted, err := item.ToDynamoDB()
			if err != nil {
				return nil, err
			}
			items = append(items, converted)
		}
		return &types.AttributeValueMemberL{Value: items}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %q", errMalformedAttribute, a.Tag)
	}
}

// ItemToDynamoDB converts a whole encoded record.
func ItemToDynamoDB(item map[string]Attribute) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for key, field := range item {
		converted, err := field.ToDynamoDB()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

// FromDynamoDB converts an SDK attribute value back into a typed attribute.
func FromDynamoDB(v types.AttributeValue) (Attribute, error) {
	switch val := v.(type) {
	case *types.AttributeValueMemberS:
		return Attribute{Tag: TagS, S: val.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return Attribute{Tag: TagBOOL, BOOL: val.Value}, nil
	case *types.AttributeValueMemberN:
		return Attribute{Tag: TagN, N: val.Value}, nil
	case *types.AttributeValueMemberM:
		fields, err := ItemFromDynamoDB(val.Value)
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{Tag: TagM, M: fields}, nil
	case *types.AttributeValueMemberL:
		items := make([]Attribute, 0, len(val.Value))
		for _, item := range val.Value {
			converted, err := FromDynamoDB(item)
			if err != nil {
				return Attribute{}, err
			}
			items = append(items, converted)
		}
		return Attribute{Tag: TagL, L: items}, nil
	default:
		return Attribute{}, fmt.Errorf("%w: %T", ErrUnsupportedKind, v)
	}
}

// ItemFromDynamoDB converts an item returned by GetItem.
func ItemFromDynamoDB(item map[string]types.AttributeValue) (map[string]Attribute, error) {
	out := make(map[string]Attribute, len(item))
	for key, field := range item {
		converted, err := FromDynamoDB(field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}
