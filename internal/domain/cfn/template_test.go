package cfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRejectsDuplicateIDs(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("Table", Resource{Type: TypeTable}))
	err := tmpl.Add("Table", Resource{Type: TypeTable})
	require.ErrorIs(t, err, ErrDuplicateResource)
}

func TestTemplateMarshalKeepsInsertionOrder(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("Zeta", Resource{Type: TypeTable, Properties: Properties{"TableName": "t"}}))
	require.NoError(t, tmpl.Add("Alpha", Resource{
		Type:       TypeFunction,
		DependsOn:  []string{"Zeta"},
		Properties: Properties{"Env": Ref{Target: "Zeta"}},
	}))

	data, err := tmpl.Render(false)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Resources":{"Zeta":{"Type":"AWS::DynamoDB::Table","Properties":{"TableName":"t"}},`+
			`"Alpha":{"Type":"AWS::Lambda::Function","DependsOn":["Zeta"],"Properties":{"Env":{"Ref":"Zeta"}}}}}`,
		string(data))

	indented, err := tmpl.Render(true)
	require.NoError(t, err)
	assert.True(t, json.Valid(indented))
	assert.Contains(t, string(indented), "\n  \"Resources\": {")
}

func TestIntrinsicsMarshal(t *testing.T) {
	data, err := json.Marshal(Properties{
		"Arn": GetAtt{Target: "Fn", Attribute: "Arn"},
		"Uri": Join{Separator: "", Parts: []any{"arn:aws:logs:", Ref{Target: PseudoRegion}, ":*"}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"Arn":{"Fn::GetAtt":["Fn","Arn"]},"Uri":{"Fn::Join":["",["arn:aws:logs:",{"Ref":"AWS::Region"},":*"]]}}`,
		string(data))
}

func TestValidateReportsDanglingReferences(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("Role", Resource{
		Type:       TypeRole,
		Properties: Properties{"Policy": map[string]any{"Resource": []any{GetAtt{Target: "Missing", Attribute: "Arn"}}}},
	}))
	require.ErrorIs(t, tmpl.Validate(), ErrDanglingReference)

	tmpl = NewTemplate()
	require.NoError(t, tmpl.Add("Deployment", Resource{Type: TypeGatewayDeployment, DependsOn: []string{"Method"}}))
	require.ErrorIs(t, tmpl.Validate(), ErrDanglingReference)
}

func TestValidateAllowsPseudoParameters(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("Role", Resource{
		Type:       TypeRole,
		Properties: Properties{"Arn": Join{Parts: []any{Ref{Target: PseudoRegion}, Ref{Target: PseudoAccountID}}}},
	}))
	assert.NoError(t, tmpl.Validate())
}

func TestValidateDetectsCycles(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("A", Resource{Type: TypeRole, Properties: Properties{"X": Ref{Target: "B"}}}))
	require.NoError(t, tmpl.Add("B", Resource{Type: TypeRole, DependsOn: []string{"A"}}))
	require.ErrorIs(t, tmpl.Validate(), ErrDependencyCycle)
}

func TestCreationOrderFollowsReferences(t *testing.T) {
	tmpl := NewTemplate()
	require.NoError(t, tmpl.Add("Function", Resource{
		Type:       TypeFunction,
		Properties: Properties{"Role": GetAtt{Target: "Role", Attribute: "Arn"}},
	}))
	require.NoError(t, tmpl.Add("Role", Resource{Type: TypeRole}))
	require.NoError(t, tmpl.Add("Table", Resource{Type: TypeTable}))

	order, err := tmpl.CreationOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Role", "Table", "Function"}, order)
}
