package aws_handler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// AWSHandler groups the AWS service clients the process uses.
type AWSHandler struct {
	SecretManager *SecretManager
}

// NewAWSHandler opens a session in region. A non-empty endpoint overrides the
// service endpoint, which local stacks such as LocalStack need.
func NewAWSHandler(region, endpoint string) (*AWSHandler, error) {
	awsConfig := aws.NewConfig().WithRegion(region)
	if endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	return &AWSHandler{
		SecretManager: NewSecretManager(secretsmanager.New(sess)),
	}, nil
}
