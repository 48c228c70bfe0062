// Package cache 提供缓冲相关的服务
package cache

// Param is the cache param
type Param interface {
	//Group cache group id
	Group() string
	//Key cache key
	Key() string
}

// ParamConf is the cache param conf with cache group and key prefix
type ParamConf struct {
	group     string
	keyPrefix string
}

// NewParamConf create ParamConf
func NewParamConf(group, keyPrefix string) *ParamConf {
	return &ParamConf{
		group:     group,
		keyPrefix: keyPrefix,
	}
}

// Group return cache group
func (p *ParamConf) Group() string {
	return p.group
}

// KeyPrefix return key prefix
func (p *ParamConf) KeyPrefix() string {
	return p.keyPrefix
}

// NewParamKey create new ParamKey with key
func (p *ParamConf) NewParamKey(key string) *ParamKey {
	return &ParamKey{
		ParamConf: p,
		key:       p.keyPrefix + key,
	}
}

// ParamKey is the cache param with key
type ParamKey struct {
	*ParamConf
	key string
}

// Key implements Param.Key()
func (p *ParamKey) Key() string {
	return p.key
}
