package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type KVRepositoryTestSuite struct {
	suite.Suite
	path string
	repo *KVRepository
}

func (suite *KVRepositoryTestSuite) SetupSubTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "shortlink.db")

	db, err := Open(suite.path, DefaultBucket)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.repo = NewKVRepository(db, DefaultBucket)
}

func (suite *KVRepositoryTestSuite) TestGet() {
	suite.Run("key not found", func() {
		v, err := suite.repo.Get(context.Background(), "missing")

		suite.ErrorIs(err, entity.ErrKeyNotFound)
		suite.Nil(v)
	})

	suite.Run("success", func() {
		suite.Require().NoError(suite.repo.Put(context.Background(), "k", []byte(`[]`)))

		v, err := suite.repo.Get(context.Background(), "k")

		suite.NoError(err)
		suite.Equal([]byte(`[]`), v)
	})
}

func (suite *KVRepositoryTestSuite) TestPut() {
	suite.Run("overwrite", func() {
		suite.NoError(suite.repo.Put(context.Background(), "k", []byte(`1`)))
		suite.NoError(suite.repo.Put(context.Background(), "k", []byte(`2`)))

		v, err := suite.repo.Get(context.Background(), "k")

		suite.NoError(err)
		suite.Equal([]byte(`2`), v)
	})

	suite.Run("bucket created on demand", func() {
		other := NewKVRepository(suite.repo.db, "other")

		suite.NoError(other.Put(context.Background(), "k", []byte(`3`)))

		v, err := other.Get(context.Background(), "k")
		suite.NoError(err)
		suite.Equal([]byte(`3`), v)
	})
}

func TestKVRepository(t *testing.T) {
	suite.Run(t, new(KVRepositoryTestSuite))
}
