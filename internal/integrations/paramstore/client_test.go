package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	getOut   *ssm.GetParameterOutput
	getErr   error
	batchOut *ssm.GetParametersOutput
	batchErr error
	lastIn   *ssm.GetParameterInput
	lastBIn  *ssm.GetParametersInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastIn = in
	return f.getOut, f.getErr
}

func (f *fakeAPI) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.lastBIn = in
	return f.batchOut, f.batchErr
}

func strPtr(s string) *string { return &s }

func param(name, value string) types.Parameter {
	return types.Parameter{Name: strPtr(name), Value: strPtr(value), Type: types.ParameterTypeSecureString}
}

func TestGetParameter_HappyPath(t *testing.T) {
	p := param("/bot/gemini-api-key", "AIza")
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &p}}
	client, err := New(api)
	require.NoError(t, err)

	v, err := client.GetParameter(context.Background(), " /bot/gemini-api-key ")
	require.NoError(t, err)
	require.Equal(t, "AIza", v)
	require.Equal(t, "/bot/gemini-api-key", *api.lastIn.Name)
	require.True(t, *api.lastIn.WithDecryption)
}

func TestGetParameter_MissingValue(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p")}}}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "missing value")
}

func TestGetParameter_ApiError(t *testing.T) {
	client, err := New(&fakeAPI{getErr: errors.New("boom")})
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "boom")
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "not initialized")
}

func TestGetParameter_EmptyName(t *testing.T) {
	client, err := New(&fakeAPI{})
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "  ")
	require.ErrorContains(t, err, "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "must not be nil")
}

func TestGetParameters_HappyPath(t *testing.T) {
	api := &fakeAPI{batchOut: &ssm.GetParametersOutput{Parameters: []types.Parameter{
		param("/bot/line/channel-secret", "s3cret"),
		param("/bot/line/channel-access-token", "tok"),
	}}}
	client, err := New(api)
	require.NoError(t, err)

	got, err := client.GetParameters(context.Background(), "/bot/line/channel-secret", "/bot/line/channel-access-token")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"/bot/line/channel-secret":       "s3cret",
		"/bot/line/channel-access-token": "tok",
	}, got)
	require.True(t, *api.lastBIn.WithDecryption)
	require.Len(t, api.lastBIn.Names, 2)
}

func TestGetParameters_Failures(t *testing.T) {
	cases := []struct {
		name  string
		api   *fakeAPI
		names []string
		want  string
	}{
		{name: "no names", api: &fakeAPI{}, want: "at least one"},
		{name: "blank name", api: &fakeAPI{}, names: []string{"a", " "}, want: "name is required"},
		{name: "api error", api: &fakeAPI{batchErr: errors.New("denied")}, names: []string{"a"}, want: "denied"},
		{name: "nil output", api: &fakeAPI{}, names: []string{"a"}, want: "empty response"},
		{
			name:  "invalid",
			api:   &fakeAPI{batchOut: &ssm.GetParametersOutput{InvalidParameters: []string{"b", "a"}}},
			names: []string{"a", "b"},
			want:  "invalid parameters: a, b",
		},
		{
			name:  "not returned",
			api:   &fakeAPI{batchOut: &ssm.GetParametersOutput{Parameters: []types.Parameter{param("a", "1")}}},
			names: []string{"a", "b"},
			want:  `"b" not returned`,
		},
		{
			name:  "nil value",
			api:   &fakeAPI{batchOut: &ssm.GetParametersOutput{Parameters: []types.Parameter{{Name: strPtr("a")}}}},
			names: []string{"a"},
			want:  "missing value",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := New(tc.api)
			require.NoError(t, err)
			_, err = client.GetParameters(context.Background(), tc.names...)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestStatic(t *testing.T) {
	s := Static{"/gemini-api-key": "k", "/empty": ""}
	v, err := s.GetParameter(context.Background(), "/gemini-api-key")
	require.NoError(t, err)
	require.Equal(t, "k", v)

	_, err = s.GetParameter(context.Background(), "/empty")
	require.ErrorContains(t, err, "not set")
	_, err = s.GetParameter(context.Background(), "/missing")
	require.Error(t, err)
}
