package database

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoestop/backend/app/models"
)

func indexKeys(specs []mongo.IndexModel) []string {
	keys := []string{}
	for _, m := range specs {
		d, ok := m.Keys.(bson.D)
		if !ok {
			continue
		}
		for _, e := range d {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func bsonTag(t *testing.T, v interface{}, field string) string {
	t.Helper()
	f, ok := reflect.TypeOf(v).FieldByName(field)
	require.True(t, ok, "field %s not found", field)
	tag := f.Tag.Get("bson")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func TestProductIndexMatchesStoredFields(t *testing.T) {
	keys := indexKeys(indexSpecs()[ColProducts])

	// The best-selling filter index must use the field name the documents
	// actually store, or the listing falls back to a collection scan.
	assert.Contains(t, keys, bsonTag(t, models.Product{}, "IsBestSelling"))
	assert.Contains(t, keys, "slug")
	assert.Contains(t, keys, "createdAt")
	assert.NotContains(t, keys, "bestSelling")
}

func TestOrderIdempotencyIndexIsPartialUnique(t *testing.T) {
	specs := indexSpecs()[ColOrders]

	var guard *mongo.IndexModel
	for i := range specs {
		d, ok := specs[i].Keys.(bson.D)
		if ok && len(d) == 2 && d[0].Key == "user" && d[1].Key == "checkoutToken" {
			guard = &specs[i]
		}
	}
	require.NotNil(t, guard, "missing (user, checkoutToken) index")

	require.NotNil(t, guard.Options)
	require.NotNil(t, guard.Options.Unique)
	assert.True(t, *guard.Options.Unique)
	assert.NotNil(t, guard.Options.PartialFilterExpression)
}
