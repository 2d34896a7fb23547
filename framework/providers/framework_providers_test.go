package providers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/service-locator/framework/amqp"
	"github.com/kofrasa/service-locator/framework/config"
	"github.com/kofrasa/service-locator/framework/locator"
	"github.com/kofrasa/service-locator/framework/providers"
	"github.com/kofrasa/service-locator/services/random"
)

func boot(t *testing.T, props *config.Properties, ps ...locator.ServiceProvider) *locator.Locator {
	t.Helper()

	l := locator.New(nil)
	reg := locator.NewProviderRegistry(l)
	for _, p := range ps {
		reg.Register(p)
	}
	require.NoError(t, l.Init(props, ""))
	reg.Boot()
	return l
}

func TestConfigServiceProvider_RegistersValues(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{App: config.AppConfig{Name: "svc", Env: "testing"}}
	l := boot(t, nil, &providers.ConfigServiceProvider{Config: cfg})

	got, ok := locator.ValueOf[*config.Config](l, "config")
	require.True(t, ok)
	assert.Same(t, cfg, got)

	name, _ := locator.ValueOf[string](l, "app.name")
	assert.Equal(t, "svc", name)
	env, _ := locator.ValueOf[string](l, "app.env")
	assert.Equal(t, "testing", env)
}

func TestConfigServiceProvider_NilConfig(t *testing.T) {
	t.Parallel()

	l := boot(t, nil, &providers.ConfigServiceProvider{})
	assert.Empty(t, l.ValueKeys())
}

func TestRandomServiceProvider(t *testing.T) {
	t.Parallel()

	props := config.NewProperties().
		Set("random", random.TypeName).
		Set("randomFactory", random.FactoryTypeName)
	l := boot(t, props, &providers.RandomServiceProvider{})

	_, err := locator.Resolve[*random.Random](l, "random")
	require.NoError(t, err)
	_, err = locator.Resolve[*random.Random](l, "randomFactory")
	require.NoError(t, err)
}

func TestAmqpServiceProvider_CapabilitiesIncludeService(t *testing.T) {
	t.Parallel()

	l := boot(t, config.NewProperties().Set("queue", amqp.MemoryTypeName), &providers.AmqpServiceProvider{})

	d, ok := l.Describe("queue")
	require.True(t, ok)
	assert.Equal(t, []locator.Capability{amqp.CapabilityMemory, amqp.CapabilityService}, d.Capabilities)

	svc, err := locator.Resolve[amqp.Service](l, "queue")
	require.NoError(t, err)
	assert.IsType(t, &amqp.MemoryService{}, svc)
}

func TestAmqpServiceProvider_CapacityFactory(t *testing.T) {
	t.Parallel()

	l := boot(t, config.NewProperties().Set("queue", amqp.MemoryTypeName), &providers.AmqpServiceProvider{Capacity: 1})

	svc, err := locator.Make[amqp.Service](l, "queue")
	require.NoError(t, err)

	ch, err := svc.CreateChannelFor("q")
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.Send(context.Background(), amqp.BytesMessage("a")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ch.Send(ctx, amqp.BytesMessage("b")), context.DeadlineExceeded, "factory-built service has capacity 1")
}
