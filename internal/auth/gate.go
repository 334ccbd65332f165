package auth

import "github.com/devfromfinland/backend-blog/internal/model"

// Gate は変更操作の認可判定を行う。
// 読み取り操作は認可不要、作成は有効なトークンのみ（所有権は作成行為で確立）、
// 更新・削除は呼び出し元の識別子が対象リソースの所有者と一致することを要求する。
type Gate struct{}

// NewGate はGateを生成する。
func NewGate() *Gate {
	return &Gate{}
}

// AuthorizeMutation は認証済みユーザーが対象リソースを変更できるか判定する。
// 不一致の場合はトークン不正時と同じUnauthorized（401）を返し、
// 「トークンが無効」か「所有者が違う」かを外部に漏らさない。
func (g *Gate) AuthorizeMutation(userID, resourceOwnerID string) error {
	if userID == "" || userID != resourceOwnerID {
		return model.NewUnauthorizedError("unauthorized")
	}
	return nil
}
