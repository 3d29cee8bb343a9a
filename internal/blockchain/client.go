package blockchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/hyperledger/sawtooth-sdk-go/protobuf/batch_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

const (
	batchSubmitAPI         string = "batches"
	batchStatusAPI         string = "batch_statuses"
	stateAPI               string = "state"
	contentTypeOctetStream string = "application/octet-stream"

	wait uint = 5
)

type Client struct {
	logger *zap.Logger
	url    string
}

func NewClient(logger *zap.Logger, validatorRestAPIUrl string) *Client {
	return &Client{logger: logger, url: validatorRestAPIUrl}
}

// Submit wraps the transaction in a single-transaction batch, posts it
// to the validator REST API and waits shortly for it to leave the
// pending state
func (c Client) Submit(ctx context.Context, txn Transaction) (batchID string, err error) {

	rawBatchList, err := createBatchList(
		[]*transaction_pb2.Transaction{&txn.transaction}, txn.signer)
	if err != nil {
		return "", errors.New("unable to construct batch list: " + err.Error())
	}
	batchID = rawBatchList.Batches[0].HeaderSignature
	batchList, err := proto.Marshal(&rawBatchList)
	if err != nil {
		return "", errors.New("unable to serialize batch list: " + err.Error())
	}

	response, err := c.sendRequest(ctx, batchSubmitAPI, batchList, contentTypeOctetStream)
	if err != nil {
		return "", err
	}

	waitTime := uint(0)
	startTime := time.Now()
	for waitTime < wait {
		status, err := c.getStatus(ctx, batchID, wait-waitTime)
		if err != nil {
			return "", err
		}
		waitTime = uint(time.Since(startTime).Seconds())
		if status != "PENDING" {
			if status == "INVALID" {
				return batchID, errors.New("transaction was rejected by the validator")
			}
			c.logger.Debug("batch submitted", zap.String("batchID", batchID), zap.String("status", status))
			return batchID, nil
		}
	}

	c.logger.Info("submit response: " + response)
	return batchID, nil
}

func (c Client) getStatus(ctx context.Context, batchID string, wait uint) (string, error) {

	apiSuffix := fmt.Sprintf("%s?id=%s&wait=%d",
		batchStatusAPI, batchID, wait)
	response, err := c.sendRequest(ctx, apiSuffix, nil, "")
	if err != nil {
		return "", err
	}

	responseMap := make(map[interface{}]interface{})
	if err := yaml.Unmarshal([]byte(response), &responseMap); err != nil {
		return "", errors.New("error reading the status response: " + err.Error())
	}
	data, ok := responseMap["data"].([]interface{})
	if !ok || len(data) == 0 {
		return "", errors.New("unexpected status response shape")
	}
	entry, ok := data[0].(map[string]interface{})
	if !ok {
		return "", errors.New("unexpected status entry shape")
	}
	return fmt.Sprint(entry["status"]), nil
}

func (c Client) sendRequest(
	ctx context.Context,
	apiSuffix string,
	data []byte,
	contentType string) (string, error) {

	var url string
	if strings.HasPrefix(c.url, "http://") {
		url = fmt.Sprintf("%s/%s", c.url, apiSuffix)
	} else {
		url = fmt.Sprintf("http://%s/%s", c.url, apiSuffix)
	}

	var request *http.Request
	var err error
	if len(data) > 0 {
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
		if err == nil {
			request.Header.Set("Content-Type", contentType)
		}
	} else {
		request, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
	if err != nil {
		return "", errors.New("failed to build the request: " + err.Error())
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return "", errors.New("failed to connect to the REST API: " + err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		c.logger.Debug(fmt.Sprintf("%v", response))
		return "", ErrNotFound
	} else if response.StatusCode >= 400 {
		return "", fmt.Errorf("error %d: %s", response.StatusCode, response.Status)
	}

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return "", errors.New("error reading the response: " + err.Error())
	}
	return string(responseBody), nil
}

func createBatchList(
	transactions []*transaction_pb2.Transaction, signer *signing.Signer) (batch_pb2.BatchList, error) {

	transactionSignatures := []string{}
	for _, transaction := range transactions {
		transactionSignatures =
			append(transactionSignatures, transaction.HeaderSignature)
	}

	rawBatchHeader := batch_pb2.BatchHeader{
		SignerPublicKey: signer.GetPublicKey().AsHex(),
		TransactionIds:  transactionSignatures,
	}
	batchHeader, err := proto.Marshal(&rawBatchHeader)
	if err != nil {
		return batch_pb2.BatchList{}, errors.New(
			"unable to serialize batch header: " + err.Error())
	}

	batchHeaderSignature := signHex(signer, batchHeader)

	batch := batch_pb2.Batch{
		Header:          batchHeader,
		Transactions:    transactions,
		HeaderSignature: batchHeaderSignature,
	}

	return batch_pb2.BatchList{
		Batches: []*batch_pb2.Batch{&batch},
	}, nil
}
