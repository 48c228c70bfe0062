package common

import (
	jsoniter "github.com/json-iterator/go"
)

// JSON 与encoding/json兼容的jsoniter配置
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary
