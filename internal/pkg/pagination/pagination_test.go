package pagination

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextClamps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query      string
		page, size int
	}{
		{"", 1, 10},
		{"?page=3&size=5", 3, 5},
		{"?page=-1&size=1000", 1, MaxSize},
		{"?page=abc&size=0", 1, DefaultSize},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
		q := FromContext(c)
		assert.Equal(t, tc.page, q.Page, tc.query)
		assert.Equal(t, tc.size, q.Size, tc.query)
	}
}

func TestPaginate(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&models.AICheckup{UserID: "u", ImagePath: fmt.Sprintf("%d.jpg", i)}).Error)
	}

	var rows []models.AICheckup
	meta, err := Paginate(db.Model(&models.AICheckup{}).Where("user_id = ?", "u"), Query{Page: 2, Size: 3}, &rows)
	require.NoError(t, err)

	assert.Len(t, rows, 3)
	assert.Equal(t, int64(7), meta.Total)
	assert.Equal(t, 3, meta.TotalPage)
	assert.True(t, meta.HasNextPage)
}
