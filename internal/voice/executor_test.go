package voice_test

import (
	"log/slog"
	"testing"

	"github.com/nikolayk812/cartstore/internal/cartstore"
	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/repository"
	"github.com/nikolayk812/cartstore/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type executorSuite struct {
	suite.Suite

	store    *cartstore.Store
	executor *voice.Executor
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(executorSuite))
}

// before each test
func (suite *executorSuite) SetupTest() {
	cat, err := catalog.Load()
	suite.Require().NoError(err)

	repo, err := repository.NewCart(repository.NewMemoryBlobStore(), "amazonCart")
	suite.Require().NoError(err)

	log := slog.New(slog.DiscardHandler)

	suite.store, err = cartstore.New(repo, log)
	suite.Require().NoError(err)

	suite.executor = voice.NewExecutor(cat, suite.store, log)
}

func (suite *executorSuite) TestAdd() {
	t := suite.T()

	res := suite.mustExecute("Add iPhone to cart")
	require.NotNil(t, res.Product)
	assert.Equal(t, domain.IntID(2), res.Product.ID)
	assert.Equal(t, "Added Apple iPhone 15 (128 GB) to your cart", res.Message)
	assert.Equal(t, voice.DestinationNone, res.Navigate)

	res = suite.mustExecute("add iphone")
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, 2, res.Cart.Items[0].Qty)
	assert.Equal(t, "Apple", res.Cart.Items[0].Brand)
}

func (suite *executorSuite) TestBuyNavigatesToCheckout() {
	t := suite.T()

	res := suite.mustExecute("buy atomic habits please")
	require.NotNil(t, res.Product)
	assert.Equal(t, domain.IntID(15), res.Product.ID)
	assert.Equal(t, voice.DestinationCheckout, res.Navigate)
	assert.Equal(t, 1, suite.store.Cart(t.Context()).TotalItems())
}

func (suite *executorSuite) TestRemove() {
	t := suite.T()

	suite.mustExecute("add iphone")
	suite.mustExecute("add air fryer")

	res := suite.mustExecute("remove the iphone from my cart")
	require.NotNil(t, res.Product)
	assert.Equal(t, domain.IntID(2), res.Product.ID)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, domain.IntID(14), res.Cart.Items[0].ID)
}

func (suite *executorSuite) TestSearch() {
	t := suite.T()

	res := suite.mustExecute("search for apple")

	var ids []domain.ItemID
	for _, p := range res.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []domain.ItemID{domain.IntID(2), domain.IntID(7), domain.IntID(10)}, ids)
	assert.Equal(t, `Found 3 products for "apple"`, res.Message)
}

func (suite *executorSuite) TestNavigationAndClear() {
	t := suite.T()

	suite.mustExecute("add laptop")

	res := suite.mustExecute("go to cart")
	assert.Equal(t, voice.DestinationCart, res.Navigate)
	assert.Equal(t, 1, res.Cart.TotalItems())

	res = suite.mustExecute("checkout")
	assert.Equal(t, voice.DestinationCheckout, res.Navigate)

	res = suite.mustExecute("clear my cart")
	assert.True(t, res.Cart.IsEmpty())
	assert.True(t, suite.store.Cart(t.Context()).IsEmpty())
}

func (suite *executorSuite) TestErrors() {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "not understood", text: "what is the weather like", wantErr: voice.ErrNotUnderstood},
		{name: "unknown product", text: "add submarine", wantErr: voice.ErrNoMatch},
		{name: "not in cart", text: "remove the iphone", wantErr: voice.ErrNoMatch},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			_, err := suite.executor.Execute(t.Context(), tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, suite.store.Cart(t.Context()).IsEmpty())
		})
	}
}

func (suite *executorSuite) mustExecute(text string) voice.Result {
	res, err := suite.executor.Execute(suite.T().Context(), text)
	suite.Require().NoError(err)
	return res
}
