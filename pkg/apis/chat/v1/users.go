package v1

import metav1 "github.com/yhlooo/pedpong/pkg/apis/meta/v1"

// User 用户
type User struct {
	metav1.ObjectMeta `json:"meta,omitempty"`
}

// DeepCopy 深拷贝
func (obj *User) DeepCopy() *User {
	if obj == nil {
		return nil
	}
	return &User{
		ObjectMeta: *obj.ObjectMeta.DeepCopy(),
	}
}
