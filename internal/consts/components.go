package consts

const (
	COMP_DAO_TASK      = "task_dao"
	COMP_DAO_USER      = "user_dao"
	COMP_SVC_TASK      = "task_service"
	COMP_SVC_AUTH      = "auth_service"
	COMP_TOKEN_MANAGER = "token_manager"
	COMP_TOKEN_REVOKER = "token_revoker"
	COMP_CTRL_TASK     = "task_ctrl"
	COMP_CTRL_AUTH     = "auth_ctrl"
)
