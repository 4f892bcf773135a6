// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package awsutil

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const (
	errNoMoreInputsExpected = "Unexpected call to "
	errWrongInput           = "Unexpected input for "
)

// MockS3Client - mock S3 client for unit tests. Don't forget to call FinishTest() at the end of your test to check
// that all calls to S3 were made, and there were no unexpected calls!
type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	// Expected requests
	ExpListObjectsV2Input []s3.ListObjectsV2Input
	ExpGetObjectInput     []s3.GetObjectInput
	ExpPutObjectInput     []s3.PutObjectInput
	ExpHeadObjectInput    []s3.HeadObjectInput
	ExpDeleteObjectInput  []s3.DeleteObjectInput

	// Responses replayed as each request comes in
	QueuedListObjectsV2Output []*s3.ListObjectsV2Output
	QueuedGetObjectOutput     []*s3.GetObjectOutput
	QueuedPutObjectOutput     []*s3.PutObjectOutput
	QueuedHeadObjectOutput    []*s3.HeadObjectOutput
	QueuedDeleteObjectOutput  []*s3.DeleteObjectOutput
}

// NOTE: This function MUST be called at the end of a unit test/example test. Use defer when declaring MockS3Client!
func (m *MockS3Client) FinishTest() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.getFinishTestResult()

	// If we found something unexpected, print an error so any example tests get this in their output
	// Unit tests which aren't example based will still get our return value
	if err != nil {
		fmt.Println(err)
	}

	return err
}

func (m *MockS3Client) getFinishTestResult() error {
	// Expecting no inputs left
	if len(m.ExpListObjectsV2Input) > 0 {
		return errors.New("Test expected more ListObjectsV2 calls to func")
	}
	if len(m.ExpGetObjectInput) > 0 {
		return errors.New("Test expected more GetObject calls to func")
	}
	if len(m.ExpPutObjectInput) > 0 {
		return errors.New("Test expected more PutObject calls to func")
	}
	if len(m.ExpHeadObjectInput) > 0 {
		return errors.New("Test expected more HeadObject calls to func")
	}
	if len(m.ExpDeleteObjectInput) > 0 {
		return errors.New("Test expected more DeleteObject calls to func")
	}
	return nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func getAsStr(body io.ReadSeeker) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	body.Seek(0, io.SeekStart)
	return string(data)
}

func checkBucketKey(name string, expBucket, gotBucket, expKey, gotKey *string) error {
	if strVal(expBucket) != strVal(gotBucket) {
		return fmt.Errorf("%v%v - bucket\nexpected: \"%v\"\nS3 recvd: \"%v\"", errWrongInput, name, strVal(expBucket), strVal(gotBucket))
	}
	if strVal(expKey) != strVal(gotKey) {
		return fmt.Errorf("%v%v - key\nexpected: \"%v\"\nS3 recvd: \"%v\"", errWrongInput, name, strVal(expKey), strVal(gotKey))
	}
	return nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.ExpListObjectsV2Input) <= 0 {
		return nil, errors.New(errNoMoreInputsExpected + "ListObjectsV2")
	}
	exp := m.ExpListObjectsV2Input[0]
	m.ExpListObjectsV2Input = m.ExpListObjectsV2Input[1:]

	if err := checkBucketKey("ListObjectsV2", exp.Bucket, input.Bucket, exp.Prefix, input.Prefix); err != nil {
		return nil, err
	}

	result := m.QueuedListObjectsV2Output[0]
	m.QueuedListObjectsV2Output = m.QueuedListObjectsV2Output[1:]
	return result, nil
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.ExpGetObjectInput) <= 0 {
		return nil, errors.New(errNoMoreInputsExpected + "GetObject")
	}
	exp := m.ExpGetObjectInput[0]
	m.ExpGetObjectInput = m.ExpGetObjectInput[1:]

	if err := checkBucketKey("GetObject", exp.Bucket, input.Bucket, exp.Key, input.Key); err != nil {
		return nil, err
	}

	result := m.QueuedGetObjectOutput[0]
	m.QueuedGetObjectOutput = m.QueuedGetObjectOutput[1:]
	if result == nil {
		return nil, fmt.Errorf("Returning error from GetObject: %v", strVal(input.Key))
	}
	return result, nil
}

func (m *MockS3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.ExpPutObjectInput) <= 0 {
		return nil, errors.New(errNoMoreInputsExpected + "PutObject")
	}
	exp := m.ExpPutObjectInput[0]
	m.ExpPutObjectInput = m.ExpPutObjectInput[1:]

	if err := checkBucketKey("PutObject", exp.Bucket, input.Bucket, exp.Key, input.Key); err != nil {
		return nil, err
	}

	inpBody := getAsStr(input.Body)
	expBody := getAsStr(exp.Body)
	if inpBody != expBody {
		return nil, fmt.Errorf("%vPutObject - body\nexpected: \"%v\"\nS3 recvd: \"%v\"", errWrongInput, expBody, inpBody)
	}

	result := m.QueuedPutObjectOutput[0]
	m.QueuedPutObjectOutput = m.QueuedPutObjectOutput[1:]
	return result, nil
}

func (m *MockS3Client) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.ExpHeadObjectInput) <= 0 {
		return nil, errors.New(errNoMoreInputsExpected + "HeadObject")
	}
	exp := m.ExpHeadObjectInput[0]
	m.ExpHeadObjectInput = m.ExpHeadObjectInput[1:]

	if err := checkBucketKey("HeadObject", exp.Bucket, input.Bucket, exp.Key, input.Key); err != nil {
		return nil, err
	}

	result := m.QueuedHeadObjectOutput[0]
	m.QueuedHeadObjectOutput = m.QueuedHeadObjectOutput[1:]
	if result == nil {
		return nil, fmt.Errorf("Returning error from HeadObject: %v", strVal(input.Key))
	}
	return result, nil
}

func (m *MockS3Client) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.ExpDeleteObjectInput) <= 0 {
		return nil, errors.New(errNoMoreInputsExpected + "DeleteObject")
	}
	exp := m.ExpDeleteObjectInput[0]
	m.ExpDeleteObjectInput = m.ExpDeleteObjectInput[1:]

	if err := checkBucketKey("DeleteObject", exp.Bucket, input.Bucket, exp.Key, input.Key); err != nil {
		return nil, err
	}

	result := m.QueuedDeleteObjectOutput[0]
	m.QueuedDeleteObjectOutput = m.QueuedDeleteObjectOutput[1:]
	return result, nil
}
