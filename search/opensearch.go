package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	requestsigner "github.com/opensearch-project/opensearch-go/v2/signer/aws"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const maxErrorBodyLen = 512

var ErrMissingAddresses = errors.New("at least one search address is required")

type Config struct {
	Addresses []string
	Username  string
	Password  string

	// Timeout is sent as the server side bulk timeout
	Timeout time.Duration

	InsecureSkipVerify bool

	// SignAWSRegion enables SigV4 request signing for Amazon OpenSearch
	SignAWSRegion string
}

// OpenSearch is a concurrency-safe bulk client. One instance should be
// created per process and shared.
type OpenSearch struct {
	cfg    *Config
	client *opensearch.Client
	log    *logrus.Entry
}

func New(cfg *Config) (*OpenSearch, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate search config")
	}

	osCfg := opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,

		// Retries are owned by the bulk executor
		DisableRetry: true,

		Transport: &http.Transport{
			MaxIdleConnsPerHost: 32,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			},
		},
	}

	if cfg.SignAWSRegion != "" {
		signer, err := requestsigner.NewSigner(session.Options{
			Config:            aws.Config{Region: aws.String(cfg.SignAWSRegion)},
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to create aws request signer")
		}

		osCfg.Signer = signer
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create opensearch client")
	}

	return &OpenSearch{
		cfg:    cfg,
		client: client,
		log:    logrus.WithField("pkg", "search"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("search config cannot be nil")
	}

	if len(cfg.Addresses) == 0 {
		return ErrMissingAddresses
	}

	return nil
}

// Bulk submits a bulk body with refresh disabled
func (o *OpenSearch) Bulk(ctx context.Context, body []byte) (*BulkResponse, error) {
	opts := []func(*opensearchapi.BulkRequest){
		o.client.Bulk.WithContext(ctx),
		o.client.Bulk.WithRefresh("false"),
	}

	if o.cfg.Timeout > 0 {
		opts = append(opts, o.client.Bulk.WithTimeout(o.cfg.Timeout))
	}

	res, err := o.client.Bulk(bytes.NewReader(body), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "bulk request failed")
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read bulk response")
	}

	if res.IsError() {
		if len(data) > maxErrorBodyLen {
			data = data[:maxErrorBodyLen]
		}

		return nil, &TransportError{Status: res.StatusCode, Body: string(data)}
	}

	resp, err := ParseBulkResponse(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse bulk response")
	}

	o.log.Debugf("bulk request completed in %dms (errors: %t, items: %d)", resp.Took, resp.Errors, len(resp.Items))

	return resp, nil
}
