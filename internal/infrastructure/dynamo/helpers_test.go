package dynamo

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"caption": "us at the beach"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, "caption", names["#f0"])
	s, ok := values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "us at the beach", s.Value)
}

func TestBuildUpdateExpr_MultipleFields(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		"enabled":      true,
		"new_reaction": false,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expr, "SET "))
	assert.Contains(t, expr, ", ")
	assert.Len(t, names, 2)
	assert.Len(t, values, 2)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	assert.Error(t, err)
}

func TestCompositeKey(t *testing.T) {
	key := compositeKey("user_id", "u1", "endpoint", "https://push.example/abc")
	require.Len(t, key, 2)
	assert.Equal(t, "u1", key["user_id"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "https://push.example/abc", key["endpoint"].(*types.AttributeValueMemberS).Value)
}
