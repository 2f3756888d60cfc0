package bootstrap_test

import (
	"testing"

	"anoa.com/alumninetwork/internal/bootstrap"
	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, bootstrap.SeedAdminUser(db, "root@alumni.test", "secret-pass"))
	require.NoError(t, bootstrap.SeedAdminUser(db, "root@alumni.test", "secret-pass"))

	var admins []entity.User
	require.NoError(t, db.Where("email = ?", "root@alumni.test").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, entity.RoleAdmin, admins[0].Role)
	assert.True(t, admins[0].IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("secret-pass")))
}
