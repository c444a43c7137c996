package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

func client() *resty.Client {
	return resty.New().SetBaseURL(apiFlag)
}

func checkStatus(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doGet(path string) ([]byte, error) {
	return checkStatus(client().R().Get(path))
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	req := client().R()
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	return checkStatus(req.Post(path))
}

func doPatchJSON(path string, payload interface{}) ([]byte, error) {
	return checkStatus(client().R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Patch(path))
}
