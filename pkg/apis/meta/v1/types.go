package v1

import (
	"crypto/sha1"
	"encoding/base32"

	"github.com/google/uuid"
)

// ObjectMeta 对象元信息
type ObjectMeta struct {
	// 对象唯一 ID
	UID UID `json:"uid,omitempty" yaml:"uid,omitempty"`
	// 对象名
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// DeepCopy 深拷贝
func (obj *ObjectMeta) DeepCopy() *ObjectMeta {
	if obj == nil {
		return nil
	}
	return &ObjectMeta{
		UID:  obj.UID,
		Name: obj.Name,
	}
}

// ShowingName 获取展示名
//
// 没有名字时使用短 UID
func (obj *ObjectMeta) ShowingName() string {
	if obj == nil {
		return ""
	}
	if obj.Name != "" {
		return obj.Name
	}
	return obj.UID.Short()
}

// NewUID 创建一个 UID
func NewUID() UID {
	return UID(uuid.New())
}

// UID 唯一 ID
type UID uuid.UUID

// IsNil 判断是否零值
func (uid UID) IsNil() bool {
	return uuid.UUID(uid) == uuid.Nil
}

// String 返回字符串形式
func (uid UID) String() string {
	return uuid.UUID(uid).String()
}

// Short 返回短字符串形式
func (uid UID) Short() string {
	if uid.IsNil() {
		return ""
	}
	sum := sha1.Sum(uid[:])
	return base32.StdEncoding.EncodeToString(sum[:5])
}
