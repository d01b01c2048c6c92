package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerSwap(t *testing.T) {
	r := &UserRepository{tableName: "qaforum"}

	items, err := r.markerSwap(usernameMarkerPK("olduser"), usernameMarkerPK("newuser"), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	del := items[0].Delete
	require.NotNil(t, del)
	assert.Equal(t, "UNIQUE#USERNAME#olduser", del.Key["PK"].(*types.AttributeValueMemberS).Value)

	put := items[1].Put
	require.NotNil(t, put)
	assert.Equal(t, "attribute_not_exists(PK)", *put.ConditionExpression)
	assert.Equal(t, "UNIQUE#USERNAME#newuser", put.Item["PK"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "user-1", put.Item["UserID"].(*types.AttributeValueMemberS).Value)
}
