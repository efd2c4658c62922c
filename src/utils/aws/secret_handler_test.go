package aws_handler_test

import (
	"errors"
	"testing"

	aws_handler "github.com/Jshatto/asset-tracker/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	secrets map[string]*string
}

func (f *fakeSecretsManager) GetSecretValue(input *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := f.secrets[aws.StringValue(input.SecretId)]
	if !ok {
		return nil, errors.New(secretsmanager.ErrCodeResourceNotFoundException)
	}
	return &secretsmanager.GetSecretValueOutput{Name: input.SecretId, SecretString: value}, nil
}

func TestGetSecretValue(t *testing.T) {
	manager := aws_handler.NewSecretManager(&fakeSecretsManager{secrets: map[string]*string{
		"asset-tracker/jwt": aws.String(`{"jwtSecret":"s3cr3t"}`),
		"binary-only":       nil,
	}})

	value, err := manager.GetSecretValue("asset-tracker/jwt")
	require.NoError(t, err)
	assert.Equal(t, `{"jwtSecret":"s3cr3t"}`, value)

	_, err = manager.GetSecretValue("binary-only")
	assert.ErrorContains(t, err, "has no string value")

	_, err = manager.GetSecretValue("missing")
	assert.ErrorContains(t, err, secretsmanager.ErrCodeResourceNotFoundException)
}

func TestNewAWSHandler(t *testing.T) {
	handler, err := aws_handler.NewAWSHandler("us-east-1", "http://localhost:4566")
	require.NoError(t, err)
	assert.NotNil(t, handler.SecretManager)
}
